// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads tvschedule configuration from defaults, a YAML file and
// the environment.
package config

import "time"

// AppConfig is the fully resolved runtime configuration.
type AppConfig struct {
	Version  string
	LogLevel string
	// Timezone is an IANA zone for rendered start times. Empty selects the fixed +09:00 offset.
	Timezone string
	// Source is the adapter tag used when a request does not name one.
	Source string

	HTTP          HTTPConfig
	OpenData      OpenDataConfig
	Embedded      EmbeddedConfig
	International InternationalConfig
	EPG           EPGConfig
	Breaker       BreakerConfig
	Server        ServerConfig
	Tracing       TracingConfig
}

// Location returns the zone used to render start times.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.FixedZone("KST", 9*60*60), nil
	}
	return time.LoadLocation(c.Timezone)
}

// HTTPConfig tunes the outbound client shared by all adapters.
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// OpenDataConfig configures the public-data airing list.
type OpenDataConfig struct {
	URL    string
	APIKey string
}

// EmbeddedConfig configures the broadcaster web page and the CORS proxy in front of it.
type EmbeddedConfig struct {
	PageURL  string
	ProxyURL string
}

// InternationalConfig configures the per-country schedule API.
type InternationalConfig struct {
	URL     string
	Country string
}

// EPGConfig configures the generic programme listing.
type EPGConfig struct {
	URL      string
	Channels string
}

// BreakerConfig tunes the per-adapter circuit breakers.
type BreakerConfig struct {
	Threshold int
	Reset     time.Duration
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string
	// RateLimit is the per-client request budget per minute. Zero disables limiting.
	RateLimit int
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileConfig mirrors the YAML file layout. Unset keys keep their defaults.
type FileConfig struct {
	LogLevel      string                  `yaml:"logLevel,omitempty"`
	Timezone      string                  `yaml:"timezone,omitempty"`
	Source        string                  `yaml:"source,omitempty"`
	HTTP          FileHTTPConfig          `yaml:"http,omitempty"`
	OpenData      FileOpenDataConfig      `yaml:"openData,omitempty"`
	Embedded      FileEmbeddedConfig      `yaml:"embedded,omitempty"`
	International FileInternationalConfig `yaml:"international,omitempty"`
	EPG           FileEPGConfig           `yaml:"epg,omitempty"`
	Breaker       FileBreakerConfig       `yaml:"breaker,omitempty"`
	Server        FileServerConfig        `yaml:"server,omitempty"`
	Tracing       FileTracingConfig       `yaml:"tracing,omitempty"`
}

type FileHTTPConfig struct {
	Timeout   string `yaml:"timeout,omitempty"`
	UserAgent string `yaml:"userAgent,omitempty"`
}

type FileOpenDataConfig struct {
	URL    string `yaml:"url,omitempty"`
	APIKey string `yaml:"apiKey,omitempty"`
}

type FileEmbeddedConfig struct {
	PageURL  string `yaml:"pageUrl,omitempty"`
	ProxyURL string `yaml:"proxyUrl,omitempty"`
}

type FileInternationalConfig struct {
	URL     string `yaml:"url,omitempty"`
	Country string `yaml:"country,omitempty"`
}

type FileEPGConfig struct {
	URL      string `yaml:"url,omitempty"`
	Channels string `yaml:"channels,omitempty"`
}

type FileBreakerConfig struct {
	Threshold *int   `yaml:"threshold,omitempty"`
	Reset     string `yaml:"reset,omitempty"`
}

type FileServerConfig struct {
	Listen    string `yaml:"listen,omitempty"`
	RateLimit *int   `yaml:"rateLimit,omitempty"`
}

type FileTracingConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
