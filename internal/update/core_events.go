package update

import (
	"github.com/kiaan-ai/voiceorb/internal/eventbus"
	"github.com/kiaan-ai/voiceorb/internal/models"
)

// handleCoreEvent applies an event pushed by the core service. Events scoped
// to a session generation are dropped when the generation has moved on: a
// provider message delivered after a mode switch or close must never land in
// the successor state.
func handleCoreEvent(state *models.WidgetState, event eventbus.CoreEvent) {
	if gen := event.Generation(); gen != 0 && gen != state.Generation {
		return
	}

	switch e := event.(type) {
	case eventbus.MessageEvent:
		state.Messages = append(state.Messages, e.Message)
		if e.Message.Type == models.User {
			state.Interim = ""
		}

	case eventbus.InterimEvent:
		state.Interim = e.Content

	case eventbus.SessionStatusEvent:
		state.IsConnected = e.Connected
		if !e.Connected && state.Mode == models.ModeVoice {
			state.IsRecording = false
		}

	case eventbus.WaitingEvent:
		state.IsWaiting = e.Waiting
		if !e.Waiting {
			state.LoadingDots = 0
		}

	case eventbus.NotificationEvent:
		notify(state, e.Title, e.Body, e.Error)

	case eventbus.TranscriptSavedEvent:
		notify(state, "Transcript Saved", e.Path, false)
	}

	if state.IsWaiting {
		state.Status = "Processing"
	} else if state.IsConnected {
		state.Status = "Connected"
	} else {
		state.Status = "Ready"
	}
}
