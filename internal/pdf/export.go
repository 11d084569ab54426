package pdf

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Filename derives a safe download filename for a topic.
func Filename(topic string) string {
	safe := unsafeFilenameChars.ReplaceAllString(strings.ReplaceAll(topic, " ", "_"), "_")
	if safe == "" {
		safe = "topic"
	}
	return fmt.Sprintf("explainr_%s.pdf", safe)
}

// Export renders an explanation as a PDF document: a title, the generation
// timestamp and the body split into paragraphs on blank lines.
func Export(w io.Writer, topic, body string, generatedAt time.Time) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("no content to export")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Explainr: %s", topic), true)
	doc.SetMargins(20, 25, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.MultiCell(0, 9, fmt.Sprintf("Explainr: %s", topic), "", "L", false)

	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 6, fmt.Sprintf("Generated on: %s", generatedAt.Format("2006-01-02 15:04")), "", "L", false)
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 12)
	for _, para := range paragraphs(body) {
		doc.MultiCell(0, 6, para, "", "L", false)
		doc.Ln(4)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// paragraphs splits text into blocks separated by blank lines, joining the
// lines inside each block.
func paragraphs(body string) []string {
	var (
		out     []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return out
}
