package update

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiaan-ai/voiceorb/internal/models"
)

// handleMouse runs the orb gesture state machine: Collapsed -> DragCandidate
// on press, DragCandidate -> Dragging once cumulative travel passes the
// threshold, and on release either an open (click) or a stay-put (drag end).
func handleMouse(state *models.WidgetState, msg tea.MouseMsg, uc Context) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if state.Phase != models.Collapsed || !overOrb(state, msg.X, msg.Y) {
			return
		}
		state.Phase = models.DragCandidate
		state.DragOffset = models.Position{X: msg.X - state.Position.X, Y: msg.Y - state.Position.Y}
		state.LastPointer = models.Position{X: msg.X, Y: msg.Y}
		state.DragDistance = 0
		state.HasDragged = false

	case tea.MouseActionMotion:
		if state.Phase != models.DragCandidate && state.Phase != models.Dragging {
			return
		}
		// Distance accumulates from incremental deltas, not total
		// displacement, so a drag that returns near its origin still
		// classifies as a drag.
		dx := float64(msg.X - state.LastPointer.X)
		dy := float64(msg.Y - state.LastPointer.Y)
		state.DragDistance += math.Hypot(dx, dy)
		state.LastPointer = models.Position{X: msg.X, Y: msg.Y}

		if state.DragDistance > DragThreshold {
			state.Phase = models.Dragging
			state.HasDragged = true
		}
		if state.Phase == models.Dragging {
			state.Position = models.ClampPosition(models.Position{
				X: msg.X - state.DragOffset.X,
				Y: msg.Y - state.DragOffset.Y,
			}, state.Width, state.Height)
		}

	case tea.MouseActionRelease:
		if state.Phase != models.DragCandidate && state.Phase != models.Dragging {
			return
		}
		if state.HasDragged {
			// Drag ends where it ends; the panel stays closed.
			state.Phase = models.Collapsed
			return
		}
		openPanel(state, uc)
	}
}

func overOrb(state *models.WidgetState, x, y int) bool {
	return x >= state.Position.X && x < state.Position.X+models.OrbWidth &&
		y >= state.Position.Y && y < state.Position.Y+models.OrbHeight
}

func openPanel(state *models.WidgetState, uc Context) {
	state.Phase = models.Expanded
	state.Mode = models.ModeNone
	uc.Scroll.Acquire()
}
