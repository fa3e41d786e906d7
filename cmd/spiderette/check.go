package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/nao1215/spiderette/internal/config"
	"github.com/nao1215/spiderette/internal/crawler"
	"github.com/nao1215/spiderette/internal/log"
	"github.com/nao1215/spiderette/internal/report"
	"github.com/nao1215/spiderette/internal/urlutil"
	"github.com/spf13/cobra"
)

// errCheckFailed is returned when at least one reachable page failed.
var errCheckFailed = errors.New("link check failed")

// runCheckCmd executes the link check.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	seed, err := urlutil.ParseSeed(cfg.Target)
	if err != nil {
		return fmt.Errorf("%w: %q", err, cfg.Target)
	}

	if cfg.NoColor {
		color.NoColor = true
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Debug, cfg.Hosts.Secrets()...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCheck(ctx, cfg, seed, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from the configuration file and the
// command line. Flags the user set explicitly override the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	if len(args) > 0 {
		cfg.Target = args[0]
	}

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given file must exist; the default locations are optional.
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ApplyFile(f)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	boolFlags := []struct {
		name string
		dst  *bool
	}{
		{"internal", &cfg.Internal},
		{"verbose", &cfg.Verbose},
		{"ignore-redirect", &cfg.IgnoreRedirect},
		{"ignore-client", &cfg.IgnoreClient},
		{"ignore-server", &cfg.IgnoreServer},
	}
	for _, f := range boolFlags {
		if !flags.Changed(f.name) {
			continue
		}
		if *f.dst, err = flags.GetBool(f.name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("parallel") {
		if cfg.Parallel, err = flags.GetInt("parallel"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("depth") {
		if cfg.MaxDepth, err = flags.GetInt("depth"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}
	if cfg.Debug, err = flags.GetBool("debug"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runCheck crawls from seed and writes the run header, progress and
// statistics to stderr and the report to stdout or cfg.ReportFile.
func runCheck(ctx context.Context, cfg *config.Config, seed *url.URL, stdout, stderr io.Writer, logger *slog.Logger) error {
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return fmt.Errorf("failed to create http client: %w", err)
	}

	session := crawler.NewSession(fetcher,
		crawler.WithOptions(crawler.Options{
			Internal:       cfg.Internal,
			Verbose:        cfg.Verbose,
			IgnoreRedirect: cfg.IgnoreRedirect,
			IgnoreClient:   cfg.IgnoreClient,
			IgnoreServer:   cfg.IgnoreServer,
			MaxDepth:       cfg.MaxDepth,
		}),
		crawler.WithParallel(cfg.Parallel),
		crawler.WithProgressWriter(stderr),
		crawler.WithLogger(logger),
	)

	if err := report.WriteHeader(stderr, seed); err != nil {
		return err
	}

	passed, err := session.Run(ctx, seed)
	if err != nil {
		return err
	}

	r := report.Build(seed.String(), session.Pages(), report.Filter{
		Verbose:        cfg.Verbose,
		IgnoreRedirect: cfg.IgnoreRedirect,
		IgnoreClient:   cfg.IgnoreClient,
		IgnoreServer:   cfg.IgnoreServer,
	})
	r.Passed = passed

	if err := outputReport(cfg, r, stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := report.WriteSummary(stderr, r.Stats); err != nil {
		return err
	}

	if !passed {
		return errCheckFailed
	}
	return nil
}

// newFetcher creates the HTTP fetcher with the transport settings and
// the per-host headers of cfg.
func newFetcher(cfg *config.Config) (*crawler.HTTPFetcher, error) {
	opts := []crawler.FetcherOption{
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	}

	if cfg.ProxyAddress != "" {
		opts = append(opts, crawler.WithProxy(cfg.ProxyAddress))
	}

	if cfg.Hosts != nil {
		opts = append(opts, crawler.WithHeaders(cfg.Hosts.Defaults.HeaderMap()))
		for host := range cfg.Hosts.Hosts {
			opts = append(opts, crawler.WithHostHeaders(host, cfg.Hosts.GetHostConfig(host).HeaderMap()))
		}
	}

	return crawler.NewHTTPFetcher(opts...)
}

// outputReport writes the report in the requested format.
func outputReport(cfg *config.Config, r *report.Report, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	_, err := w.Write(r)
	return err
}
