package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrNoTarget is returned when no seed URL is specified.
	ErrNoTarget = errors.New("no target specified: provide a seed URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidParallel is returned when the fetch concurrency is not positive.
	ErrInvalidParallel = errors.New("invalid parallel: must be positive")

	// ErrInvalidDepth is returned when the maximum depth is negative.
	// Use 0 for unlimited depth.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// host:port format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
