package models

import "time"

// Phase is the top-level widget state: collapsed orb, a pointer gesture in
// flight, or the expanded panel.
type Phase int

const (
	Collapsed Phase = iota
	DragCandidate
	Dragging
	Expanded
)

func (p Phase) String() string {
	switch p {
	case Collapsed:
		return "collapsed"
	case DragCandidate:
		return "drag-candidate"
	case Dragging:
		return "dragging"
	case Expanded:
		return "expanded"
	}
	return "unknown"
}

// Mode is the selected interaction workflow inside the expanded panel.
// ModeNone shows the mode-selection screen.
type Mode int

const (
	ModeNone Mode = iota
	ModeVoice
	ModeText
	ModeMeeting
)

func (m Mode) String() string {
	switch m {
	case ModeVoice:
		return "voice"
	case ModeText:
		return "text"
	case ModeMeeting:
		return "meeting"
	}
	return "none"
}

// Position is a terminal cell coordinate, origin top-left.
type Position struct {
	X int
	Y int
}

// Notification is a transient toast shown in the status area.
type Notification struct {
	Title string
	Body  string
	Error bool
}

// WidgetState is the single source of truth for the UI. All mutation goes
// through the update package's reducer; nothing else writes these fields.
type WidgetState struct {
	Phase Phase
	Mode  Mode

	// Orb position and drag tracking. DragDistance accumulates incremental
	// pointer deltas so a drag that circles back to its origin still counts
	// as a drag.
	Position     Position
	DragOffset   Position
	LastPointer  Position
	DragDistance float64
	HasDragged   bool

	IsRecording bool
	IsConnected bool
	IsWaiting   bool // request in flight for the active mode

	Messages  []Message
	Interim   string // non-final voice transcript, shown transiently
	TextInput string
	Files     []string // attached file paths for the next text message

	// Meeting sub-state.
	MeetingTitle   string
	TitleInput     bool // title entry field focused
	MeetingStarted time.Time
	MeetingSeconds int

	Width  int
	Height int

	Notification    *Notification
	NotificationAge int  // ticks since the notification appeared
	DemoNotified    bool // one-time demo-mode advisory shown

	// Generation increments whenever a mode is left or the panel closes.
	// Async results tagged with an older generation are dropped.
	Generation uint64

	Status      string
	LoadingDots int
}

// NewWidgetState returns the initial collapsed state. Generation starts at 1
// so that zero can mean "not scoped to any session" on core events.
func NewWidgetState() WidgetState {
	return WidgetState{
		Phase:      Collapsed,
		Mode:       ModeNone,
		Generation: 1,
		Status:     "Ready",
	}
}

// Orb footprint in cells, used for clamping drag positions.
const (
	OrbWidth  = 3
	OrbHeight = 1
)

// DefaultPosition is the bottom-right inset used until the user drags the orb.
func DefaultPosition(width, height int) Position {
	x := width - OrbWidth - 2
	y := height - OrbHeight - 1
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Position{X: x, Y: y}
}

// ClampPosition keeps the orb fully inside the viewport.
func ClampPosition(p Position, width, height int) Position {
	maxX := width - OrbWidth
	maxY := height - OrbHeight
	if p.X > maxX {
		p.X = maxX
	}
	if p.Y > maxY {
		p.Y = maxY
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}
