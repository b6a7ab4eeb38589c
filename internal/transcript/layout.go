package transcript

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Layout is computed before any PDF drawing so pagination and word wrapping
// are a pure function of the entry sequence. The exporter renders with a
// monospace font, which keeps these character-based widths truthful.

type LineKind int

const (
	LineTitle LineKind = iota
	LineMeta
	LineSpeaker
	LineContent
	LineBlank
)

type Line struct {
	Kind LineKind
	Text string
}

type Page []Line

const (
	wrapWidth    = 78
	linesPerPage = 52
	// A speaker header is never orphaned at the bottom of a page; it moves
	// to the next page together with at least one content line.
	speakerKeepLines = 2
)

// BuildPages lays out the document: title, session metadata, then each entry
// as a "[time] Speaker:" header followed by wrapped, indented content.
func BuildPages(title string, startedAt time.Time, entries []Entry) []Page {
	var pages []Page
	var page Page

	emit := func(l Line) {
		if len(page) >= linesPerPage {
			pages = append(pages, page)
			page = nil
		}
		page = append(page, l)
	}

	emit(Line{Kind: LineTitle, Text: title})
	emit(Line{Kind: LineBlank})
	if !startedAt.IsZero() {
		emit(Line{Kind: LineMeta, Text: "Date: " + startedAt.Format("2006-01-02")})
		emit(Line{Kind: LineMeta, Text: "Start Time: " + startedAt.Format("15:04:05")})
		emit(Line{Kind: LineBlank})
	}

	for _, entry := range entries {
		if remaining := linesPerPage - len(page); remaining < speakerKeepLines {
			pages = append(pages, page)
			page = nil
		}
		header := "[" + entry.Timestamp.Format("15:04:05") + "] " + entry.Speaker.Label() + ":"
		emit(Line{Kind: LineSpeaker, Text: header})
		for _, wrapped := range WrapText(entry.Content, wrapWidth) {
			emit(Line{Kind: LineContent, Text: "  " + wrapped})
		}
		emit(Line{Kind: LineBlank})
	}

	if len(page) > 0 {
		pages = append(pages, page)
	}
	return pages
}

// WrapText word-wraps s to at most width characters per line. Words longer
// than a full line are broken hard at the width.
func WrapText(s string, width int) []string {
	if width <= 0 || s == "" {
		return []string{s}
	}

	var lines []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		currentLen = 0
	}

	for _, word := range strings.Fields(s) {
		wordLen := utf8.RuneCountInString(word)

		for wordLen > width {
			if currentLen > 0 {
				flush()
			}
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
			wordLen -= width
		}

		switch {
		case currentLen == 0:
			current.WriteString(word)
			currentLen = wordLen
		case currentLen+1+wordLen <= width:
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + wordLen
		default:
			flush()
			current.WriteString(word)
			currentLen = wordLen
		}
	}
	if currentLen > 0 {
		flush()
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
