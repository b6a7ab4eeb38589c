package transcript

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	original := Log{
		Title:     "Sprint Sync",
		StartedAt: start,
		Entries: []Entry{
			{ID: "e-1", Speaker: SpeakerSystem, Content: "Meeting started", Timestamp: start},
			{ID: "e-2", Speaker: SpeakerUser, Content: "Hello", Timestamp: start.Add(time.Minute)},
			{ID: "e-3", Speaker: SpeakerAI, Content: "Hi", Timestamp: start.Add(2 * time.Minute)},
		},
	}

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, SaveLog(path, original))

	loaded, err := LoadLog(path)
	require.NoError(t, err)
	assert.Equal(t, original.Title, loaded.Title)
	assert.True(t, original.StartedAt.Equal(loaded.StartedAt))
	require.Len(t, loaded.Entries, 3)
	assert.Equal(t, SpeakerUser, loaded.Entries[1].Speaker)
	assert.Equal(t, SpeakerAI, loaded.Entries[2].Speaker)
}

func TestLoadLogRejectsUnknownSpeaker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, SaveLog(path, Log{Title: "ok"}))

	_, err := LoadLog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
