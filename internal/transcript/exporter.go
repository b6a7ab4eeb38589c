package transcript

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Exporter renders a recorded session to a PDF document. Pagination comes
// from BuildPages, so the same entry sequence always yields the same layout;
// the document creation date is pinned to the session start so the bytes do
// not vary with the moment of export.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

const (
	pageMargin = 20.0
	lineHeight = 5.5
)

// Export renders title, session metadata and every entry of the snapshot.
func (e *Exporter) Export(title string, startedAt time.Time, entries []Entry) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(startedAt)
	doc.SetModificationDate(startedAt)
	doc.SetTitle(title, true)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, 0)

	for _, page := range BuildPages(title, startedAt, entries) {
		doc.AddPage()
		for _, line := range page {
			switch line.Kind {
			case LineTitle:
				doc.SetFont("Courier", "B", 16)
				doc.CellFormat(0, lineHeight*2, line.Text, "", 1, "L", false, 0, "")
			case LineMeta:
				doc.SetFont("Courier", "", 11)
				doc.CellFormat(0, lineHeight, line.Text, "", 1, "L", false, 0, "")
			case LineSpeaker:
				doc.SetFont("Courier", "B", 9)
				doc.CellFormat(0, lineHeight, line.Text, "", 1, "L", false, 0, "")
			case LineContent:
				doc.SetFont("Courier", "", 9)
				doc.CellFormat(0, lineHeight, line.Text, "", 1, "L", false, 0, "")
			case LineBlank:
				doc.Ln(lineHeight)
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render transcript document: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportRecorder renders the recorder's current snapshot.
func (e *Exporter) ExportRecorder(r *Recorder) ([]byte, error) {
	return e.Export(r.Title(), r.StartedAt(), r.Snapshot())
}

// Filename derives the download name from the sanitized meeting title and
// the export date: non-alphanumerics collapse to underscores, lowercased.
func Filename(title string, date time.Time) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return fmt.Sprintf("%s_%s.pdf", b.String(), date.Format("2006-01-02"))
}

// SaveRecorder writes the exported document into dir and returns the full
// path.
func (e *Exporter) SaveRecorder(r *Recorder, dir string, date time.Time) (string, error) {
	data, err := e.ExportRecorder(r)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(r.Title(), date))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript file: %w", err)
	}
	return path, nil
}
