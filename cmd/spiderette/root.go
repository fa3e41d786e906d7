package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/spiderette/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for spiderette.
// The root command itself runs the link check.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spiderette [flags] <seed-url>",
		Short: "Crawl a website and report broken links",
		Long: `spiderette crawls a website starting from a seed URL, follows every link
it finds, and reports pages that answer with a client error, a server error
or a redirect.

The exit status is 0 when every reachable page loads successfully and 1
otherwise. Progress and statistics are written to stderr, the report to
stdout or the file given with --output.

Examples:
  # Check a whole site
  spiderette https://example.com/

  # Stay on the same host and stop three links away from the seed
  spiderette --internal --depth 3 https://example.com/docs/

  # Only care about errors, and keep a JSON report
  spiderette -R --json -o report/links.json https://example.com/

  # Use a custom configuration file
  spiderette -c myconfig.yaml https://staging.example.com/

Configuration file (.spiderette.yaml) example:
  crawl:
    internal: true
    parallel: 8
  hosts:
    staging.example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"`,
		Version:       getVersion(),
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCheckCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Traversal flags
	cmd.Flags().BoolP("internal", "i", false,
		"Only follow links on the same host as the linking page")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum number of link hops from the seed (0 = unlimited)")

	// Output filtering flags
	cmd.Flags().BoolP("verbose", "v", false,
		"Also report pages that loaded successfully")
	cmd.Flags().BoolP("ignore-redirect", "R", false,
		"Hide redirects from the output")
	cmd.Flags().BoolP("ignore-client", "C", false,
		"Hide client errors (4xx) from the output; they still fail the check")
	cmd.Flags().BoolP("ignore-server", "S", false,
		"Hide server errors (5xx) from the output; they still fail the check")

	// Transport flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("parallel", "p", config.DefaultParallel,
		"Maximum number of concurrent requests")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:1080)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .spiderette.yaml in current, XDG config or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")
	cmd.Flags().Bool("debug", false,
		"Enable debug logging")

	cmd.Flags().BoolP("version", "V", false, "Print version information")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
// A failed check has already been reported, so only the exit status is set.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
