package voice

import (
	"context"
	"errors"
)

// ErrPermissionDenied is reported when microphone access is refused. It is
// surfaced to the user distinctly from a generic connection failure.
var ErrPermissionDenied = errors.New("microphone permission denied")

// Recognizer abstracts local speech capture. Real audio I/O lives outside
// this repository; the widget only needs permission acquisition and session
// lifecycle.
type Recognizer interface {
	// Start acquires the microphone. Blocks until permission is granted or
	// refused, or ctx is cancelled.
	Start(ctx context.Context) error
	Stop()
}

// DemoRecognizer grants permission immediately and captures nothing. Used in
// demo mode and in tests.
type DemoRecognizer struct{}

func (DemoRecognizer) Start(ctx context.Context) error { return nil }
func (DemoRecognizer) Stop()                           {}

// DeniedRecognizer refuses permission, for exercising the denial path.
type DeniedRecognizer struct{}

func (DeniedRecognizer) Start(ctx context.Context) error { return ErrPermissionDenied }
func (DeniedRecognizer) Stop()                           {}
