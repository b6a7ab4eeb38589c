package eventbus

import (
	"time"

	"github.com/kiaan-ai/voiceorb/internal/models"
)

// UIEvent represents events sent from the widget UI to the core.
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from the core to the widget UI. Events
// tied to one mode session carry the generation they were issued under; the
// reducer drops any event whose generation no longer matches, so a provider
// callback arriving after a mode switch cannot land in stale state.
type CoreEvent interface {
	CoreEvent()
	Generation() uint64
}

// SendTextEvent - UI asks core to send a text-mode message.
type SendTextEvent struct {
	Gen     uint64
	Message string
	Files   []string
	History []models.Message
}

func (e SendTextEvent) UIEvent() {}

// StartVoiceEvent - UI asks core to open a voice-provider session.
// Meeting selects the meeting agent instead of the chat agent.
type StartVoiceEvent struct {
	Gen     uint64
	Meeting bool
}

func (e StartVoiceEvent) UIEvent() {}

// StopVoiceEvent - UI asks core to terminate the active voice session.
type StopVoiceEvent struct {
	Gen uint64
}

func (e StopVoiceEvent) UIEvent() {}

// StartMeetingEvent - UI starts a meeting recording session.
type StartMeetingEvent struct {
	Gen   uint64
	Title string
}

func (e StartMeetingEvent) UIEvent() {}

// StopMeetingEvent - UI stops the meeting recording session.
type StopMeetingEvent struct {
	Gen uint64
}

func (e StopMeetingEvent) UIEvent() {}

// ExportTranscriptEvent - UI asks core to export the recorded transcript.
type ExportTranscriptEvent struct {
	Gen uint64
}

func (e ExportTranscriptEvent) UIEvent() {}

// EndSessionEvent - UI left a mode or closed the panel; core must tear down
// any session still running under the given generation.
type EndSessionEvent struct {
	Gen uint64
}

func (e EndSessionEvent) UIEvent() {}

// MessageEvent - core delivers one transcript message for the active mode.
type MessageEvent struct {
	Gen     uint64
	Message models.Message
}

func (e MessageEvent) CoreEvent()         {}
func (e MessageEvent) Generation() uint64 { return e.Gen }

// InterimEvent - a non-final voice transcript, shown transiently and never
// persisted.
type InterimEvent struct {
	Gen     uint64
	Content string
}

func (e InterimEvent) CoreEvent()         {}
func (e InterimEvent) Generation() uint64 { return e.Gen }

// SessionStatusEvent - voice-provider connection state changed.
type SessionStatusEvent struct {
	Gen       uint64
	Connected bool
}

func (e SessionStatusEvent) CoreEvent()         {}
func (e SessionStatusEvent) Generation() uint64 { return e.Gen }

// WaitingEvent - a request for the active mode is in flight.
type WaitingEvent struct {
	Gen     uint64
	Waiting bool
}

func (e WaitingEvent) CoreEvent()         {}
func (e WaitingEvent) Generation() uint64 { return e.Gen }

// NotificationEvent - transient user-facing notice. Not generation-scoped;
// a toast is shown regardless of which mode is active.
type NotificationEvent struct {
	Title string
	Body  string
	Error bool
}

func (e NotificationEvent) CoreEvent()         {}
func (e NotificationEvent) Generation() uint64 { return 0 }

// TranscriptSavedEvent - the exporter finished writing a document.
type TranscriptSavedEvent struct {
	Gen  uint64
	Path string
}

func (e TranscriptSavedEvent) CoreEvent()         {}
func (e TranscriptSavedEvent) Generation() uint64 { return e.Gen }

// BusError represents errors in event delivery.
type BusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e BusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}
