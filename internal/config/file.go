package config

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// HostConfig holds request settings for a single host.
type HostConfig struct {
	// Cookie is an HTTP cookie to send to this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// HeaderMap returns the headers to send, with Cookie folded in.
func (h HostConfig) HeaderMap() map[string]string {
	headers := make(map[string]string, len(h.Headers)+1)
	maps.Copy(headers, h.Headers)
	if h.Cookie != "" {
		headers["Cookie"] = h.Cookie
	}
	return headers
}

// CrawlOptions mirrors the crawl flags in the configuration file.
type CrawlOptions struct {
	Internal       bool          `yaml:"internal,omitempty"`
	Verbose        bool          `yaml:"verbose,omitempty"`
	IgnoreRedirect bool          `yaml:"ignoreRedirect,omitempty"`
	IgnoreClient   bool          `yaml:"ignoreClient,omitempty"`
	IgnoreServer   bool          `yaml:"ignoreServer,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"`
	Parallel       int           `yaml:"parallel,omitempty"`
	Depth          int           `yaml:"depth,omitempty"`
	UserAgent      string        `yaml:"userAgent,omitempty"`
	Proxy          string        `yaml:"proxy,omitempty"`
	MaxBodySize    int64         `yaml:"maxBodySize,omitempty"`
}

// File represents the structure of the .spiderette.yaml configuration file.
type File struct {
	// Crawl holds defaults for the crawl flags.
	Crawl CrawlOptions `yaml:"crawl,omitempty"`

	// Defaults contains request settings applied to every host
	// unless overridden in Hosts.
	Defaults HostConfig `yaml:"defaults,omitempty"`

	// Hosts maps a host, with or without port, to its request settings.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`
}

// NewFile returns an empty configuration file.
func NewFile() *File {
	return &File{
		Hosts: make(map[string]HostConfig),
	}
}

// GetHostConfig returns the configuration for a specific host.
// It merges the host-specific configuration with defaults.
func (cf *File) GetHostConfig(host string) HostConfig {
	result := HostConfig{
		Cookie:  cf.Defaults.Cookie,
		Headers: maps.Clone(cf.Defaults.Headers),
	}

	hostConfig, ok := cf.Hosts[host]
	if !ok {
		hostConfig, ok = cf.Hosts[strings.ToLower(host)]
	}
	if !ok {
		return result
	}

	if hostConfig.Cookie != "" {
		result.Cookie = hostConfig.Cookie
	}
	if len(hostConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, hostConfig.Headers)
	}

	return result
}

// credentialHeaderWords mark a header name as carrying a credential.
var credentialHeaderWords = []string{"cookie", "auth", "token", "secret", "api-key", "apikey", "password"}

// Secrets returns the cookie and credential header values configured for
// any host, sorted and without duplicates. Loggers use it to keep these
// values out of their output.
func (cf *File) Secrets() []string {
	if cf == nil {
		return nil
	}

	var secrets []string
	collect := func(h HostConfig) {
		if h.Cookie != "" {
			secrets = append(secrets, h.Cookie)
		}
		for name, value := range h.Headers {
			if value != "" && isCredentialHeader(name) {
				secrets = append(secrets, value)
			}
		}
	}

	collect(cf.Defaults)
	for _, h := range cf.Hosts {
		collect(h)
	}

	slices.Sort(secrets)
	return slices.Compact(secrets)
}

func isCredentialHeader(name string) bool {
	name = strings.ToLower(name)
	for _, word := range credentialHeaderWords {
		if strings.Contains(name, word) {
			return true
		}
	}
	return false
}
