package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/spiderette/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// This format is designed for documentation and sharing, e.g. as a CI
// job summary.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeGroups(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("Spiderette Report")
	md.PlainText("")

	result := "✅ Passed"
	if !report.Passed {
		result = "❌ Failed"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + report.Seed + "`"},
			{"Pages Checked", strconv.Itoa(report.Stats.Total)},
			{"Result", result},
		},
	})
	md.PlainText("")
}

// writeSummary writes the status table, chart and overall alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *Report) {
	stats := report.Stats

	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{classTitle(model.StatusSuccess), fmt.Sprintf("%d (%.1f%%)", stats.Success, stats.SuccessRate())},
			{classTitle(model.StatusRedirect), strconv.Itoa(stats.Redirects)},
			{classTitle(model.StatusClientError), strconv.Itoa(stats.ClientErrors)},
			{classTitle(model.StatusServerError), strconv.Itoa(stats.ServerErrors)},
			{"**Total**", "**" + strconv.Itoa(stats.Total) + "**"},
		},
	})
	md.PlainText("")

	if stats.Total > 0 {
		w.writePieChart(md, stats)
	}

	switch {
	case stats.Errors() > 0:
		md.Cautionf("%d broken page(s) found.", stats.Errors())
	case stats.Redirects > 0:
		md.Note(fmt.Sprintf("No broken pages. %d redirect(s) could be replaced by their targets.", stats.Redirects))
	default:
		md.Tip("No broken pages found.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the status distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats Stats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Status Distribution"),
		piechart.WithShowData(true),
	)

	values := []struct {
		class model.StatusClass
		count int
	}{
		{model.StatusSuccess, stats.Success},
		{model.StatusRedirect, stats.Redirects},
		{model.StatusClientError, stats.ClientErrors},
		{model.StatusServerError, stats.ServerErrors},
	}
	for _, v := range values {
		if v.count > 0 {
			chart.LabelAndIntValue(classTitle(v.class), uint64(v.count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeGroups writes one section per referrer group.
func (w *MarkdownWriter) writeGroups(md *markdown.Markdown, report *Report) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Groups) == 0 {
		md.PlainText("No pages to report.")
		md.PlainText("")
		return
	}

	for i, group := range report.Groups {
		md.H3(fmt.Sprintf("Group %d: %d referrer(s)", i+1, len(group.Signature)))
		md.PlainText("")

		if len(group.Referrers) > 0 {
			md.PlainText("**Linked from**")
			md.PlainText("")
			md.Table(pageTable(group.Referrers))
			md.PlainText("")
		}

		md.PlainText("**Pages**")
		md.PlainText("")
		md.Table(pageTable(group.Pages))
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [spiderette](https://github.com/nao1215/spiderette)*")
}

// pageTable renders pages as a status/class/URL table.
func pageTable(pages []*model.Page) markdown.TableSet {
	rows := make([][]string, len(pages))
	for i, p := range pages {
		rows[i] = []string{
			strconv.Itoa(p.StatusCode()),
			classTitle(p.Class()),
			"`" + p.Key() + "`",
		}
	}
	return markdown.TableSet{
		Header: []string{"Status", "Class", "URL"},
		Rows:   rows,
	}
}

// classTitle returns the title-cased name of a status class.
func classTitle(class model.StatusClass) string {
	return cases.Title(language.English).String(class.String())
}
