package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "spiderette"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultParallel is the maximum number of concurrent fetches.
	// The traversal itself is unbounded; this only limits requests on the wire.
	DefaultParallel = 16

	// DefaultMaxDepth of 0 means the whole internal site is crawled.
	DefaultMaxDepth = 0

	// DefaultUserAgent identifies spiderette in HTTP requests.
	DefaultUserAgent = "spiderette (+https://github.com/nao1215/spiderette)"

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for a run.
// It is populated from the configuration file and CLI flags and passed
// through the application rather than kept in global state.
type Config struct {
	// Target is the seed URL as given on the command line.
	Target string

	// Internal restricts expansion to links on the linking page's host.
	Internal bool

	// Verbose includes successful pages in progress output and the report.
	Verbose bool

	// IgnoreRedirect hides redirects from progress output and the report.
	IgnoreRedirect bool

	// IgnoreClient hides 4xx pages. They still fail the run.
	IgnoreClient bool

	// IgnoreServer hides 5xx pages. They still fail the run.
	IgnoreServer bool

	// Timeout is the timeout of each HTTP request.
	Timeout time.Duration

	// Parallel is the maximum number of concurrent fetches.
	Parallel int

	// MaxDepth stops expansion after this many link hops from the seed.
	// 0 means unlimited.
	MaxDepth int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in host:port format.
	ProxyAddress string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// ConfigFilePath is the path to the configuration file.
	// If empty, the default locations are searched.
	ConfigFilePath string

	// Hosts holds the request settings loaded from the configuration file.
	Hosts *File

	// JSONReport enables JSON report output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// NoColor disables terminal colors.
	NoColor bool

	// Debug enables debug-level structured logs.
	Debug bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Parallel:    DefaultParallel,
		MaxDepth:    DefaultMaxDepth,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Hosts:       NewFile(),
	}
}

// XDGConfigDir returns the XDG config directory for spiderette.
// On Linux: ~/.config/spiderette
// On macOS: ~/Library/Application Support/spiderette
// On Windows: %APPDATA%\spiderette
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the crawl settings of f into c and keeps f for
// per-host request settings. Only non-zero file values are applied, so
// CLI flags applied afterwards take precedence.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.Hosts = f

	o := f.Crawl
	if o.Internal {
		c.Internal = true
	}
	if o.Verbose {
		c.Verbose = true
	}
	if o.IgnoreRedirect {
		c.IgnoreRedirect = true
	}
	if o.IgnoreClient {
		c.IgnoreClient = true
	}
	if o.IgnoreServer {
		c.IgnoreServer = true
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.Parallel != 0 {
		c.Parallel = o.Parallel
	}
	if o.Depth != 0 {
		c.MaxDepth = o.Depth
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Proxy != "" {
		c.ProxyAddress = o.Proxy
	}
	if o.MaxBodySize != 0 {
		c.MaxBodySize = o.MaxBodySize
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Parallel <= 0 {
		return ErrInvalidParallel
	}

	if c.MaxDepth < 0 {
		return ErrInvalidDepth
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.ProxyAddress != "" && !isValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	return nil
}

// isValidProxyAddress checks if the address is in "host:port" format with
// a port between 1 and 65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
