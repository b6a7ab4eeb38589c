package app

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kiaan-ai/voiceorb/internal/config"
	"github.com/kiaan-ai/voiceorb/internal/core"
	"github.com/kiaan-ai/voiceorb/internal/dispatcher"
	"github.com/kiaan-ai/voiceorb/internal/eventbus"
	"github.com/kiaan-ai/voiceorb/internal/logging"
	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/internal/scroll"
	"github.com/kiaan-ai/voiceorb/internal/update"
)

// Application manages the complete widget lifecycle: configuration, the
// event bus, the core service, and the bubbletea program.
type Application struct {
	resolver   *config.Resolver
	bus        *eventbus.Bus
	dispatcher *dispatcher.Dispatcher
	service    *core.WidgetService
	model      *AppModel
	log        *zap.Logger
}

func NewApplication() (*Application, error) {
	var log *zap.Logger
	if logPath, err := config.LogPath(); err == nil {
		log = logging.New(logPath)
	} else {
		log = zap.NewNop()
	}

	// A failing store degrades the resolver to env vars and defaults; the
	// widget must stay usable with storage disabled.
	store, err := config.NewFileStore()
	if err != nil {
		log.Warn("config store unavailable, using defaults", zap.Error(err))
	}
	var resolverStore config.Store
	if store != nil {
		resolverStore = store
	}
	resolver := config.NewResolver(resolverStore, log)

	bus := eventbus.NewBus()
	disp := dispatcher.New(bus)

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = "."
	}
	service := core.NewWidgetService(bus, resolver, log,
		core.WithExportDir(exportDir))

	state := models.NewWidgetState()
	model := &AppModel{
		state:      state,
		dispatcher: disp,
		uc: update.Context{
			Bus:                 bus,
			Scroll:              scroll.NewLock(nil),
			HasValidVoiceConfig: resolver.HasValidVoiceConfig,
		},
	}

	return &Application{
		resolver:   resolver,
		bus:        bus,
		dispatcher: disp,
		service:    service,
		model:      model,
		log:        log,
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("widget terminated abnormally: %w", err)
	}
	return nil
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.bus.Close()
	_ = app.log.Sync()
}
