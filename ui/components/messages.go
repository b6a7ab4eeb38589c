package components

import (
	"strings"

	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/ui/styles"
)

func RenderMessages(messages []models.Message, interim string) string {
	var b strings.Builder

	systemStyle := styles.SystemStyle()
	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()

	for _, msg := range messages {
		switch msg.Type {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n")
		case models.Assistant:
			b.WriteString(assistantStyle.Render("Assistant: "+msg.Content) + "\n")
		case models.System, models.Program:
			b.WriteString(systemStyle.Render(msg.Content) + "\n")
		}
	}

	if interim != "" {
		b.WriteString(styles.InterimStyle().Render("… "+interim) + "\n")
	}

	return b.String()
}
