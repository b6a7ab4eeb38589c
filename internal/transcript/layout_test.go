package transcript

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"empty", "", 10, []string{""}},
		{"fits", "hello world", 20, []string{"hello world"}},
		{"wraps at word boundary", "alpha beta gamma", 11, []string{"alpha beta", "gamma"}},
		{"long word broken hard", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"collapses whitespace", "a   b\t c", 20, []string{"a b c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.in, tt.width))
		})
	}
}

func TestWrapTextNeverExceedsWidth(t *testing.T) {
	text := strings.Repeat("some words of varying length go here ", 20)
	for _, line := range WrapText(text, 30) {
		assert.LessOrEqual(t, len(line), 30)
	}
}

func buildEntries(n int, start time.Time) []Entry {
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, Entry{
			ID:        fmt.Sprintf("id-%d", i),
			Speaker:   Speaker(i % 3),
			Content:   fmt.Sprintf("entry number %d", i),
			Timestamp: start.Add(time.Duration(i) * time.Second),
		})
	}
	return entries
}

func TestBuildPagesHeaderAndOrder(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []Entry{
		{Speaker: SpeakerSystem, Content: "Meeting started", Timestamp: start},
		{Speaker: SpeakerUser, Content: "Hello", Timestamp: start.Add(time.Minute)},
		{Speaker: SpeakerAI, Content: "Hi there", Timestamp: start.Add(2 * time.Minute)},
	}

	pages := BuildPages("Sprint Sync", start, entries)
	require.Len(t, pages, 1)
	page := pages[0]

	assert.Equal(t, LineTitle, page[0].Kind)
	assert.Equal(t, "Sprint Sync", page[0].Text)

	var speakers []string
	for _, line := range page {
		switch line.Kind {
		case LineMeta:
			assert.True(t,
				line.Text == "Date: 2026-03-14" || line.Text == "Start Time: 09:30:00",
				"unexpected meta line %q", line.Text)
		case LineSpeaker:
			speakers = append(speakers, line.Text)
		}
	}

	require.Len(t, speakers, 3)
	assert.Equal(t, "[09:30:00] System:", speakers[0])
	assert.Equal(t, "[09:31:00] Participant:", speakers[1])
	assert.Equal(t, "[09:32:00] AI Assistant:", speakers[2])
}

func TestBuildPagesPaginates(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	pages := BuildPages("Long Meeting", start, buildEntries(100, start))

	require.Greater(t, len(pages), 1)
	for _, page := range pages {
		assert.LessOrEqual(t, len(page), linesPerPage)
	}
}

func TestBuildPagesNeverOrphansSpeakerHeader(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	pages := BuildPages("Long Meeting", start, buildEntries(200, start))

	for _, page := range pages {
		if len(page) == 0 {
			continue
		}
		last := page[len(page)-1]
		assert.NotEqual(t, LineSpeaker, last.Kind,
			"speaker header split from its content across a page boundary")
	}
}

func TestBuildPagesDeterministic(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	entries := buildEntries(50, start)

	first := BuildPages("Repro", start, entries)
	second := BuildPages("Repro", start, entries)
	assert.Equal(t, first, second)
}
