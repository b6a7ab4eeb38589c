package components

import (
	"strings"

	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/ui/styles"
)

const orbGlyph = "(●)"

// RenderOrb paints the collapsed widget: an empty canvas with the orb glyph
// at its current position.
func RenderOrb(state *models.WidgetState) string {
	if state.Width <= 0 || state.Height <= 0 {
		return orbGlyph
	}

	style := styles.OrbStyle()
	if state.Phase == models.Dragging {
		style = styles.OrbDraggingStyle()
	}

	var b strings.Builder
	for y := 0; y < state.Height; y++ {
		if y == state.Position.Y {
			b.WriteString(strings.Repeat(" ", state.Position.X))
			b.WriteString(style.Render(orbGlyph))
		}
		if y < state.Height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
