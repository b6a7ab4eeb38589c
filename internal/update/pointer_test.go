package update

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/kiaan-ai/voiceorb/internal/eventbus"
	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/internal/scroll"
)

func testContext(valid bool) Context {
	return Context{
		Bus:                 eventbus.NewBus(),
		Scroll:              scroll.NewLock(nil),
		HasValidVoiceConfig: func() bool { return valid },
	}
}

func testState(width, height int) models.WidgetState {
	state := models.NewWidgetState()
	state.Width = width
	state.Height = height
	state.Position = models.DefaultPosition(width, height)
	return state
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestClickOpensPanelWithoutMoving(t *testing.T) {
	state := testState(80, 24)
	uc := testContext(true)
	origin := state.Position

	handleMouse(&state, press(origin.X, origin.Y), uc)
	assert.Equal(t, models.DragCandidate, state.Phase)

	handleMouse(&state, release(origin.X, origin.Y), uc)
	assert.Equal(t, models.Expanded, state.Phase)
	assert.Equal(t, models.ModeNone, state.Mode)
	assert.Equal(t, origin, state.Position, "a click never moves the orb")
	assert.True(t, uc.Scroll.Held())
}

func TestJitterBelowThresholdStillClicks(t *testing.T) {
	state := testState(80, 24)
	uc := testContext(true)
	origin := state.Position

	handleMouse(&state, press(origin.X, origin.Y), uc)
	handleMouse(&state, motion(origin.X+1, origin.Y), uc)
	handleMouse(&state, motion(origin.X+2, origin.Y), uc)
	handleMouse(&state, motion(origin.X+1, origin.Y), uc)

	assert.Equal(t, models.DragCandidate, state.Phase)
	assert.Equal(t, origin, state.Position, "position frozen until the threshold is crossed")

	handleMouse(&state, release(origin.X+1, origin.Y), uc)
	assert.Equal(t, models.Expanded, state.Phase)
}

func TestDragMovesOrbAndSkipsOpen(t *testing.T) {
	state := testState(80, 24)
	uc := testContext(true)
	origin := state.Position

	handleMouse(&state, press(origin.X, origin.Y), uc)
	handleMouse(&state, motion(origin.X-10, origin.Y-5), uc)
	assert.Equal(t, models.Dragging, state.Phase)

	handleMouse(&state, motion(origin.X-20, origin.Y-8), uc)
	handleMouse(&state, release(origin.X-20, origin.Y-8), uc)

	assert.Equal(t, models.Collapsed, state.Phase, "a drag ends without opening the panel")
	assert.Equal(t, models.Position{X: origin.X - 20, Y: origin.Y - 8}, state.Position)
	assert.False(t, uc.Scroll.Held())
}

func TestDragClampsToViewport(t *testing.T) {
	state := testState(80, 24)
	uc := testContext(true)
	origin := state.Position

	handleMouse(&state, press(origin.X, origin.Y), uc)
	handleMouse(&state, motion(500, 500), uc)
	assert.Equal(t, models.Position{X: 80 - models.OrbWidth, Y: 24 - models.OrbHeight}, state.Position)

	handleMouse(&state, motion(-100, -100), uc)
	assert.Equal(t, models.Position{X: 0, Y: 0}, state.Position)
}

func TestReturnToOriginStillCountsAsDrag(t *testing.T) {
	state := testState(80, 24)
	uc := testContext(true)
	origin := state.Position

	// Out past the threshold and back: net displacement is zero but the
	// accumulated travel is not.
	handleMouse(&state, press(origin.X, origin.Y), uc)
	handleMouse(&state, motion(origin.X+4, origin.Y), uc)
	handleMouse(&state, motion(origin.X, origin.Y), uc)
	handleMouse(&state, release(origin.X, origin.Y), uc)

	assert.Equal(t, models.Collapsed, state.Phase)
	assert.False(t, uc.Scroll.Held())
}

func TestPressOutsideOrbIgnored(t *testing.T) {
	state := testState(80, 24)
	uc := testContext(true)

	handleMouse(&state, press(0, 0), uc)
	assert.Equal(t, models.Collapsed, state.Phase)

	handleMouse(&state, release(0, 0), uc)
	assert.Equal(t, models.Collapsed, state.Phase)
}

func TestNonLeftButtonIgnored(t *testing.T) {
	state := testState(80, 24)
	uc := testContext(true)
	origin := state.Position

	msg := tea.MouseMsg{X: origin.X, Y: origin.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}
	handleMouse(&state, msg, uc)
	assert.Equal(t, models.Collapsed, state.Phase)
}

func TestResizeRepositionsOnlyWhileCollapsed(t *testing.T) {
	state := testState(80, 24)
	uc := testContext(true)
	origin := state.Position

	handleMouse(&state, press(origin.X, origin.Y), uc)
	handleMouse(&state, motion(40, 10), uc)
	dragged := state.Position

	handleWindowSize(&state, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, dragged, state.Position, "resize must not yank the orb mid-drag")

	handleMouse(&state, release(40, 10), uc)
	handleWindowSize(&state, tea.WindowSizeMsg{Width: 120, Height: 50})
	assert.Equal(t, models.DefaultPosition(120, 50), state.Position)
}
