// Package dispatcher bridges the core-to-UI side of the event bus into the
// bubbletea runtime: each delivered core event becomes a tea.Msg, and the
// update loop re-arms the listener after handling one.
package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiaan-ai/voiceorb/internal/eventbus"
)

// CoreEventMsg wraps a core event for bubbletea.
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

type Dispatcher struct {
	bus    *eventbus.Bus
	ctx    context.Context
	cancel context.CancelFunc
}

func New(bus *eventbus.Bus) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		bus:    bus,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ListenForCoreEvents returns a command that blocks until the core delivers
// an event or the dispatcher stops.
func (d *Dispatcher) ListenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-d.ctx.Done():
			return nil
		case event, ok := <-d.bus.CoreToUI():
			if !ok {
				return nil
			}
			return CoreEventMsg{Event: event}
		}
	}
}

func (d *Dispatcher) Stop() {
	d.cancel()
}

func (d *Dispatcher) Bus() *eventbus.Bus {
	return d.bus
}
