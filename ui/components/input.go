package components

import (
	"github.com/kiaan-ai/voiceorb/ui/styles"
)

func RenderInput(input string, width int) string {
	return styles.InputStyle(width).Render(input + "█")
}
