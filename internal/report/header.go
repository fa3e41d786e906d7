package report

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fatih/color"
)

// labelColor renders the labels of the header and summary blocks.
var labelColor = color.New(color.FgYellow)

// WriteHeader writes the run header: the seed host and start path.
func WriteHeader(w io.Writer, seed *url.URL) error {
	path := seed.Path
	if path == "" {
		path = "/"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s       %s\n", labelColor.Sprint("Host:"), seed.Host)
	fmt.Fprintf(&sb, "%s %s\n", labelColor.Sprint("Start Path:"), path)

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteSummary writes the aggregate statistics block.
func WriteSummary(w io.Writer, stats Stats) error {
	var sb strings.Builder
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s         %d\n", labelColor.Sprint("Pages:"), stats.Total)
	fmt.Fprintf(&sb, "%s       %d (%.1f%%)\n", labelColor.Sprint("Success:"), stats.Success, stats.SuccessRate())
	fmt.Fprintf(&sb, "%s %d\n", labelColor.Sprint("Server errors:"), stats.ServerErrors)
	fmt.Fprintf(&sb, "%s %d\n", labelColor.Sprint("Client errors:"), stats.ClientErrors)
	fmt.Fprintf(&sb, "%s     %d\n", labelColor.Sprint("Redirects:"), stats.Redirects)

	_, err := io.WriteString(w, sb.String())
	return err
}
