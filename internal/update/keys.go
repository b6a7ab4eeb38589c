package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kiaan-ai/voiceorb/internal/eventbus"
	"github.com/kiaan-ai/voiceorb/internal/models"
)

func handleKey(state *models.WidgetState, msg tea.KeyMsg, uc Context) tea.Cmd {
	if msg.String() == "ctrl+c" {
		if state.Phase == models.Expanded {
			closePanel(state, uc)
		}
		return tea.Quit
	}

	if state.Phase != models.Expanded {
		// A keyboard affordance for opening the orb without a pointer.
		if msg.String() == "enter" {
			openPanel(state, uc)
		}
		return nil
	}

	if state.Mode == models.ModeNone {
		handleModeSelectKey(state, msg, uc)
		return nil
	}

	switch state.Mode {
	case models.ModeVoice:
		handleVoiceKey(state, msg, uc)
	case models.ModeText:
		handleTextKey(state, msg, uc)
	case models.ModeMeeting:
		handleMeetingKey(state, msg, uc)
	}
	return nil
}

func handleModeSelectKey(state *models.WidgetState, msg tea.KeyMsg, uc Context) {
	switch msg.String() {
	case "1", "v":
		selectMode(state, models.ModeVoice, uc)
	case "2", "t":
		selectMode(state, models.ModeText, uc)
	case "3", "m":
		selectMode(state, models.ModeMeeting, uc)
	case "esc", "q":
		closePanel(state, uc)
	}
}

func selectMode(state *models.WidgetState, mode models.Mode, uc Context) {
	state.Mode = mode
	state.Messages = nil
	state.TextInput = ""
	state.Interim = ""
	state.Files = nil

	if mode == models.ModeMeeting {
		state.TitleInput = true
	}

	// One-time advisory when a voice-backed mode is chosen without real
	// provider credentials.
	if (mode == models.ModeVoice || mode == models.ModeMeeting) &&
		!uc.HasValidVoiceConfig() && !state.DemoNotified {
		notify(state, "Demo Mode",
			"No voice provider configured; responses will be simulated.", false)
		state.DemoNotified = true
	}
}

// backToModes ends any active session first, then returns to the
// mode-selection screen. The generation bump makes every in-flight provider
// callback stale before mode state is discarded.
func backToModes(state *models.WidgetState, uc Context) {
	endActiveSession(state, uc)
	state.Mode = models.ModeNone
	state.Messages = nil
	state.Interim = ""
	state.TextInput = ""
	state.Files = nil
	state.TitleInput = false
	state.IsWaiting = false
	state.LoadingDots = 0
}

func closePanel(state *models.WidgetState, uc Context) {
	endActiveSession(state, uc)
	state.Phase = models.Collapsed
	state.Mode = models.ModeNone
	state.Messages = nil
	state.Interim = ""
	state.TextInput = ""
	state.Files = nil
	state.TitleInput = false
	state.IsWaiting = false
	state.LoadingDots = 0
	uc.Scroll.Release()
}

func endActiveSession(state *models.WidgetState, uc Context) {
	gen := state.Generation
	if state.IsRecording && state.Mode == models.ModeMeeting {
		send(state, uc, eventbus.StopMeetingEvent{Gen: gen})
	}
	send(state, uc, eventbus.EndSessionEvent{Gen: gen})

	state.Generation++
	state.IsConnected = false
	state.IsRecording = false
	state.MeetingTitle = ""
	state.MeetingStarted = time.Time{}
	state.MeetingSeconds = 0
}

func handleVoiceKey(state *models.WidgetState, msg tea.KeyMsg, uc Context) {
	switch msg.String() {
	case "esc":
		backToModes(state, uc)
	case " ", "space":
		if !state.IsRecording {
			state.IsRecording = true
			send(state, uc, eventbus.StartVoiceEvent{Gen: state.Generation})
		} else {
			state.IsRecording = false
			send(state, uc, eventbus.StopVoiceEvent{Gen: state.Generation})
		}
	}
}

func handleTextKey(state *models.WidgetState, msg tea.KeyMsg, uc Context) {
	switch msg.String() {
	case "esc":
		backToModes(state, uc)
	case "enter":
		sendTextMessage(state, uc)
	case "backspace":
		if len(state.TextInput) > 0 {
			state.TextInput = state.TextInput[:len(state.TextInput)-1]
		}
	default:
		if len(msg.String()) == 1 {
			state.TextInput += msg.String()
		}
	}
}

func sendTextMessage(state *models.WidgetState, uc Context) {
	input := strings.TrimSpace(state.TextInput)
	if input == "" {
		return
	}

	// "/attach <path>" queues a file for the next message instead of
	// sending anything.
	if path, ok := strings.CutPrefix(input, "/attach "); ok {
		state.Files = append(state.Files, strings.TrimSpace(path))
		state.TextInput = ""
		notify(state, "File Attached", strings.TrimSpace(path), false)
		return
	}

	history := make([]models.Message, len(state.Messages))
	copy(history, state.Messages)

	state.Messages = append(state.Messages, models.Message{
		ID:        uuid.NewString(),
		Content:   input,
		Type:      models.User,
		Timestamp: time.Now(),
	})

	send(state, uc, eventbus.SendTextEvent{
		Gen:     state.Generation,
		Message: input,
		Files:   state.Files,
		History: history,
	})
	state.TextInput = ""
	state.Files = nil
}

func handleMeetingKey(state *models.WidgetState, msg tea.KeyMsg, uc Context) {
	if state.TitleInput {
		switch msg.String() {
		case "esc":
			backToModes(state, uc)
		case "enter":
			startMeeting(state, uc)
		case "backspace":
			if len(state.TextInput) > 0 {
				state.TextInput = state.TextInput[:len(state.TextInput)-1]
			}
		default:
			if len(msg.String()) == 1 {
				state.TextInput += msg.String()
			}
		}
		return
	}

	switch msg.String() {
	case "esc":
		backToModes(state, uc)
	case "s":
		stopMeeting(state, uc)
	case "r":
		if !state.IsRecording {
			state.TextInput = ""
			state.TitleInput = true
		}
	case "d":
		send(state, uc, eventbus.ExportTranscriptEvent{Gen: state.Generation})
	}
}

func startMeeting(state *models.WidgetState, uc Context) {
	title := strings.TrimSpace(state.TextInput)
	state.TextInput = ""
	state.TitleInput = false
	state.MeetingTitle = title
	state.IsRecording = true
	state.MeetingStarted = time.Now()
	state.MeetingSeconds = 0

	send(state, uc, eventbus.StartMeetingEvent{Gen: state.Generation, Title: title})
	if uc.HasValidVoiceConfig() {
		send(state, uc, eventbus.StartVoiceEvent{Gen: state.Generation, Meeting: true})
	}
}

func stopMeeting(state *models.WidgetState, uc Context) {
	if !state.IsRecording {
		return
	}
	state.IsRecording = false
	state.MeetingStarted = time.Time{}
	if state.IsConnected {
		send(state, uc, eventbus.StopVoiceEvent{Gen: state.Generation})
	}
	send(state, uc, eventbus.StopMeetingEvent{Gen: state.Generation})
}

func send(state *models.WidgetState, uc Context, event eventbus.UIEvent) {
	if uc.Bus == nil {
		return
	}
	if err := uc.Bus.SendToCore(event); err != nil {
		notify(state, "Error", "Failed to reach the assistant service: "+err.Error(), true)
	}
}
