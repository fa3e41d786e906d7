// Package config provides the configuration of a spiderette run.
// It defines crawl options, report preferences, and the optional YAML
// configuration file with per-host request headers.
package config
