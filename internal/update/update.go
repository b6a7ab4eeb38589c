// Package update is the single mutation point for WidgetState: a reducer
// taking the current state plus one bubbletea message and applying the next
// transition. Nothing outside this package writes widget state, which keeps
// the single-writer invariant provable even though provider callbacks arrive
// asynchronously.
package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiaan-ai/voiceorb/internal/dispatcher"
	"github.com/kiaan-ai/voiceorb/internal/eventbus"
	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/internal/scroll"
)

// DragThreshold is the cumulative pointer travel, in cells, beyond which a
// gesture counts as a drag instead of a click.
const DragThreshold = 5.0

// Context carries the reducer's collaborators. HasValidVoiceConfig is
// re-evaluated on each mode selection so a freshly written override takes
// effect without restarting the widget.
type Context struct {
	Bus                 *eventbus.Bus
	Scroll              *scroll.Lock
	HasValidVoiceConfig func() bool
}

func Handle(state *models.WidgetState, msg tea.Msg, uc Context) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKey(state, msg, uc)
	case tea.MouseMsg:
		handleMouse(state, msg, uc)
		return nil
	case tea.WindowSizeMsg:
		handleWindowSize(state, msg)
		return nil
	case TickMsg:
		return handleTick(state, msg)
	case dispatcher.CoreEventMsg:
		handleCoreEvent(state, msg.Event)
		return nil
	}
	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func handleWindowSize(state *models.WidgetState, msg tea.WindowSizeMsg) {
	state.Width = msg.Width
	state.Height = msg.Height

	// The default orb position tracks the bottom-right corner across
	// resizes, but never while a drag gesture is in flight.
	if state.Phase == models.Collapsed {
		state.Position = models.DefaultPosition(msg.Width, msg.Height)
	}
}

func handleTick(state *models.WidgetState, msg TickMsg) tea.Cmd {
	if state.IsWaiting {
		state.LoadingDots = (state.LoadingDots + 1) % 4
	}

	if state.IsRecording && state.Mode == models.ModeMeeting && !state.MeetingStarted.IsZero() {
		state.MeetingSeconds = int(time.Time(msg).Sub(state.MeetingStarted).Seconds())
	}

	if state.Notification != nil {
		state.NotificationAge++
		if state.NotificationAge >= 8 {
			state.Notification = nil
			state.NotificationAge = 0
		}
	}

	return TickCmd()
}

func notify(state *models.WidgetState, title, body string, isErr bool) {
	state.Notification = &models.Notification{Title: title, Body: body, Error: isErr}
	state.NotificationAge = 0
}
