package report

import (
	"io"
	"strings"
)

// SimpleWriter outputs the grouped report as terminal text.
// Each group lists its referrers as "incoming" lines and its members as
// "outgoing" lines, followed by a blank line.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report groups.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	for _, group := range report.Groups {
		for _, referrer := range group.Referrers {
			sb.WriteString("incoming ")
			sb.WriteString(referrer.Log())
			sb.WriteString("\n")
		}
		for _, page := range group.Pages {
			sb.WriteString("outgoing ")
			sb.WriteString(page.Log())
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}
