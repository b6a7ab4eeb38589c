package transcript

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	date := time.Date(2026, 3, 14, 16, 45, 0, 0, time.UTC)

	tests := []struct {
		title string
		want  string
	}{
		{"Sprint Sync", "sprint_sync_2026-03-14.pdf"},
		{"Q1 Planning (Draft)", "q1_planning__draft__2026-03-14.pdf"},
		{"Meeting Recording", "meeting_recording_2026-03-14.pdf"},
		{"CAPS", "caps_2026-03-14.pdf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.title, date))
	}
}

func TestExportProducesPDF(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []Entry{
		{Speaker: SpeakerSystem, Content: "Meeting started: 2026-03-14 09:30:00", Timestamp: start},
		{Speaker: SpeakerUser, Content: "Hello", Timestamp: start.Add(time.Minute)},
		{Speaker: SpeakerAI, Content: "Hi there", Timestamp: start.Add(2 * time.Minute)},
	}

	data, err := NewExporter().Export("Sprint Sync", start, entries)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportIsDeterministic(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := buildEntries(30, start)

	exporter := NewExporter()
	first, err := exporter.Export("Repro", start, entries)
	require.NoError(t, err)
	second, err := exporter.Export("Repro", start, entries)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same snapshot must yield identical bytes")
}

func TestSaveRecorder(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	clock := &fakeClock{now: start, step: time.Minute}
	rec := NewRecorder(WithClock(clock.Now))

	rec.Start("Sprint Sync")
	rec.Append(SpeakerUser, "Hello")
	rec.Stop()

	dir := t.TempDir()
	path, err := NewExporter().SaveRecorder(rec, dir, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sprint_sync_2026-03-15.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
