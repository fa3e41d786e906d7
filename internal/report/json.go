package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonReport is the serialized form of a Report.
type jsonReport struct {
	Seed        string      `json:"seed"`
	Passed      bool        `json:"passed"`
	Stats       Stats       `json:"stats"`
	SuccessRate float64     `json:"success_rate"`
	Groups      []jsonGroup `json:"groups"`
}

type jsonGroup struct {
	Referrers []jsonPage `json:"referrers"`
	Pages     []jsonPage `json:"pages"`
}

type jsonPage struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	Class  string `json:"class"`
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *Report) (int, error) {
	doc := jsonReport{
		Seed:        report.Seed,
		Passed:      report.Passed,
		Stats:       report.Stats,
		SuccessRate: report.Stats.SuccessRate(),
		Groups:      make([]jsonGroup, 0, len(report.Groups)),
	}

	for _, group := range report.Groups {
		jg := jsonGroup{
			Referrers: make([]jsonPage, 0, len(group.Referrers)),
			Pages:     make([]jsonPage, 0, len(group.Pages)),
		}
		for _, p := range group.Referrers {
			jg.Referrers = append(jg.Referrers, jsonPage{URL: p.Key(), Status: p.StatusCode(), Class: p.Class().String()})
		}
		for _, p := range group.Pages {
			jg.Pages = append(jg.Pages, jsonPage{URL: p.Key(), Status: p.StatusCode(), Class: p.Class().String()})
		}
		doc.Groups = append(doc.Groups, jg)
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
