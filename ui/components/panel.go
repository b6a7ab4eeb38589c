package components

import (
	"fmt"
	"strings"

	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/ui/styles"
)

// RenderPanel paints the expanded widget: header, the active mode's view (or
// the mode-selection screen), and the status line.
func RenderPanel(state *models.WidgetState) string {
	var b strings.Builder

	b.WriteString(renderHeader(state))
	b.WriteString("\n\n")

	switch state.Mode {
	case models.ModeNone:
		b.WriteString(renderModeSelect())
	case models.ModeVoice:
		b.WriteString(renderVoiceMode(state))
	case models.ModeText:
		b.WriteString(renderTextMode(state))
	case models.ModeMeeting:
		b.WriteString(renderMeetingMode(state))
	}

	b.WriteString("\n")
	b.WriteString(RenderStatus(state))

	width := state.Width - 4
	if width < 20 {
		width = 20
	}
	return styles.PanelStyle(width).Render(b.String())
}

func renderHeader(state *models.WidgetState) string {
	header := styles.HeaderStyle().Render("Kiaan Voice Orb")
	if state.IsConnected {
		header += "  " + styles.BadgeStyle().Render("Connected")
	}
	if state.Mode != models.ModeNone {
		header += "  " + styles.HintStyle().Render("esc: back")
	} else {
		header += "  " + styles.HintStyle().Render("esc: close")
	}
	return header
}

func renderModeSelect() string {
	item := styles.ModeItemStyle()
	var b strings.Builder
	b.WriteString(item.Render("1. Voice · talk to the assistant") + "\n")
	b.WriteString(item.Render("2. Text · type a message, attach files") + "\n")
	b.WriteString(item.Render("3. Meeting · record and export a transcript") + "\n")
	return b.String()
}

func renderVoiceMode(state *models.WidgetState) string {
	var b strings.Builder
	if state.IsRecording {
		b.WriteString(styles.RecordingStyle().Render("● Listening") + "\n\n")
	} else {
		b.WriteString(styles.HintStyle().Render("space: start talking") + "\n\n")
	}
	b.WriteString(RenderMessages(state.Messages, state.Interim))
	return b.String()
}

func renderTextMode(state *models.WidgetState) string {
	var b strings.Builder
	b.WriteString(RenderMessages(state.Messages, ""))
	if len(state.Files) > 0 {
		b.WriteString(styles.HintStyle().Render(
			fmt.Sprintf("Attachments: %s", strings.Join(state.Files, ", "))) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderInput(state.TextInput, state.Width))
	b.WriteString("\n" + styles.HintStyle().Render("enter: send · /attach <path> to attach a file"))
	return b.String()
}

func renderMeetingMode(state *models.WidgetState) string {
	var b strings.Builder

	if state.TitleInput {
		b.WriteString(styles.HintStyle().Render("Meeting title (enter to start recording):") + "\n")
		b.WriteString(RenderInput(state.TextInput, state.Width))
		return b.String()
	}

	if state.IsRecording {
		label := "● Recording"
		if state.MeetingTitle != "" {
			label += "  " + state.MeetingTitle
		}
		b.WriteString(styles.RecordingStyle().Render(
			fmt.Sprintf("%s  %s", label, formatDuration(state.MeetingSeconds))) + "\n\n")
	} else {
		b.WriteString(styles.HintStyle().Render("r: new recording · d: export transcript") + "\n\n")
	}

	b.WriteString(RenderMessages(state.Messages, state.Interim))

	if state.IsRecording {
		b.WriteString("\n" + styles.HintStyle().Render("s: stop · d: export transcript"))
	}
	return b.String()
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
