package components

import (
	"strings"

	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/ui/styles"
)

func RenderStatus(state *models.WidgetState) string {
	if n := state.Notification; n != nil {
		style := styles.NotificationStyle()
		if n.Error {
			style = styles.ErrorNotificationStyle()
		}
		text := n.Title
		if n.Body != "" {
			text += ": " + n.Body
		}
		return style.Render(text)
	}

	content := state.Status
	if state.IsWaiting {
		content += strings.Repeat(".", state.LoadingDots)
	}
	return styles.StatusStyle(state.Width).Render(content)
}
