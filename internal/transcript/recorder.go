// Package transcript owns the meeting conversation log: an append-only,
// speaker-tagged sequence of entries that outlives mode switches within one
// recording session, plus the PDF exporter that turns it into a document.
package transcript

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Speaker int

const (
	SpeakerUser Speaker = iota
	SpeakerAI
	SpeakerSystem
)

// Label is the speaker name used in the exported document.
func (s Speaker) Label() string {
	switch s {
	case SpeakerUser:
		return "Participant"
	case SpeakerAI:
		return "AI Assistant"
	}
	return "System"
}

// Entry is one persisted unit of the conversation log.
type Entry struct {
	ID        string    `json:"id"`
	Speaker   Speaker   `json:"speaker"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const timestampLayout = "2006-01-02 15:04:05"

// Recorder collects entries for one recording session. Appends may arrive
// from provider goroutines, so all state is mutex-guarded.
type Recorder struct {
	mu        sync.Mutex
	title     string
	startedAt time.Time
	recording bool
	entries   []Entry

	now   func() time.Time
	newID func() string
}

type RecorderOption func(*Recorder)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// WithIDGenerator replaces the entry id source, for tests.
func WithIDGenerator(newID func() string) RecorderOption {
	return func(r *Recorder) { r.newID = newID }
}

func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start resets the log and opens a new session with a system entry marking
// the start time. Calling Start while already recording discards the prior
// session; the UI layer guards against accidental double-start.
func (r *Recorder) Start(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if title == "" {
		title = "Meeting Recording"
	}
	r.title = title
	r.startedAt = r.now()
	r.recording = true
	r.entries = nil

	r.append(SpeakerSystem, "Meeting started: "+r.startedAt.Format(timestampLayout))
}

// Append adds an entry with a fresh unique id and the current timestamp,
// returning the id for cross-referencing.
func (r *Recorder) Append(speaker Speaker, content string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.append(speaker, content)
}

func (r *Recorder) append(speaker Speaker, content string) string {
	entry := Entry{
		ID:        r.newID(),
		Speaker:   speaker,
		Content:   content,
		Timestamp: r.now(),
	}
	r.entries = append(r.entries, entry)
	return entry.ID
}

// Stop closes the session with a system entry carrying the end time and the
// duration rounded to whole minutes. The log stays readable until Clear.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording || r.startedAt.IsZero() {
		return
	}
	endedAt := r.now()
	minutes := int(math.Round(endedAt.Sub(r.startedAt).Minutes()))
	r.append(SpeakerSystem, fmt.Sprintf("Meeting ended: %s (Duration: %d minutes)",
		endedAt.Format(timestampLayout), minutes))
	r.recording = false
}

// Snapshot returns a copy of the log so callers never observe concurrent
// appends through a live slice.
func (r *Recorder) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Clear empties the log and resets the session-start marker.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.startedAt = time.Time{}
	r.recording = false
	r.title = ""
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

func (r *Recorder) Title() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.title
}

func (r *Recorder) StartedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startedAt
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
