package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiaan-ai/voiceorb/internal/dispatcher"
	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/internal/update"
	"github.com/kiaan-ai/voiceorb/ui/components"
)

// AppModel adapts WidgetState to bubbletea. All mutation is delegated to the
// update package's reducer.
type AppModel struct {
	state      models.WidgetState
	dispatcher *dispatcher.Dispatcher
	uc         update.Context
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := update.Handle(&m.state, msg, m.uc)

	// After handling a core event, re-arm the listener for the next one.
	if _, ok := msg.(dispatcher.CoreEventMsg); ok {
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}
	return m, cmd
}

func (m *AppModel) View() string {
	if m.state.Phase == models.Expanded {
		return components.RenderPanel(&m.state)
	}
	return components.RenderOrb(&m.state)
}
