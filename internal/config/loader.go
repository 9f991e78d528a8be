// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/tvschedule/internal/log"
	"github.com/ManuGH/tvschedule/internal/sources"
)

// Defaults applied before the file and the environment.
const (
	DefaultLogLevel         = "info"
	DefaultHTTPTimeout      = 15 * time.Second
	DefaultBreakerThreshold = 3
	DefaultBreakerReset     = 30 * time.Second
	DefaultListen           = ":8080"
	DefaultRateLimit        = 120
	DefaultTracingExporter  = "grpc"
	DefaultTracingEndpoint  = "localhost:4317"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // keys read from the environment, for diagnostics
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseString(EnvPrefix+key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseBool(EnvPrefix+key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseInt(EnvPrefix+key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseDuration(EnvPrefix+key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseFloat(EnvPrefix+key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults,
// then validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults(l.version)

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	logger := log.WithComponent("config")
	logger.Info().
		Str(log.FieldEvent, "config.loaded").
		Str("file", l.configPath).
		Str(log.FieldSource, cfg.Source).
		Bool("opendata_key_set", cfg.OpenData.APIKey != "").
		Msg("configuration loaded")
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults(version string) AppConfig {
	ua := "tvschedule"
	if version != "" {
		ua += "/" + version
	}
	return AppConfig{
		Version:  version,
		LogLevel: DefaultLogLevel,
		Source:   string(sources.DefaultTag),
		HTTP: HTTPConfig{
			Timeout:   DefaultHTTPTimeout,
			UserAgent: ua,
		},
		OpenData: OpenDataConfig{URL: sources.DefaultOpenDataURL},
		Embedded: EmbeddedConfig{
			PageURL:  sources.DefaultEmbeddedPageURL,
			ProxyURL: sources.DefaultEmbeddedProxyURL,
		},
		International: InternationalConfig{
			URL:     sources.DefaultInternationalURL,
			Country: sources.DefaultCountry,
		},
		EPG: EPGConfig{
			URL:      sources.DefaultGenericEPGURL,
			Channels: sources.DefaultGenericEPGChannels,
		},
		Breaker: BreakerConfig{
			Threshold: DefaultBreakerThreshold,
			Reset:     DefaultBreakerReset,
		},
		Server: ServerConfig{
			Listen:    DefaultListen,
			RateLimit: DefaultRateLimit,
		},
		Tracing: TracingConfig{
			Exporter:     DefaultTracingExporter,
			Endpoint:     DefaultTracingEndpoint,
			SamplingRate: 1.0,
		},
	}
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	setString(&dst.LogLevel, src.LogLevel)
	setString(&dst.Timezone, src.Timezone)
	setString(&dst.Source, src.Source)

	if err := setDuration(&dst.HTTP.Timeout, "http.timeout", src.HTTP.Timeout); err != nil {
		return err
	}
	setString(&dst.HTTP.UserAgent, src.HTTP.UserAgent)

	setString(&dst.OpenData.URL, src.OpenData.URL)
	setString(&dst.OpenData.APIKey, src.OpenData.APIKey)
	setString(&dst.Embedded.PageURL, src.Embedded.PageURL)
	setString(&dst.Embedded.ProxyURL, src.Embedded.ProxyURL)
	setString(&dst.International.URL, src.International.URL)
	setString(&dst.International.Country, src.International.Country)
	setString(&dst.EPG.URL, src.EPG.URL)
	setString(&dst.EPG.Channels, src.EPG.Channels)

	if src.Breaker.Threshold != nil {
		dst.Breaker.Threshold = *src.Breaker.Threshold
	}
	if err := setDuration(&dst.Breaker.Reset, "breaker.reset", src.Breaker.Reset); err != nil {
		return err
	}

	setString(&dst.Server.Listen, src.Server.Listen)
	if src.Server.RateLimit != nil {
		dst.Server.RateLimit = *src.Server.RateLimit
	}

	if src.Tracing.Enabled != nil {
		dst.Tracing.Enabled = *src.Tracing.Enabled
	}
	setString(&dst.Tracing.Exporter, src.Tracing.Exporter)
	setString(&dst.Tracing.Endpoint, src.Tracing.Endpoint)
	if src.Tracing.SamplingRate != nil {
		dst.Tracing.SamplingRate = *src.Tracing.SamplingRate
	}
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString("LOG_LEVEL", cfg.LogLevel)
	cfg.Timezone = l.envString("TIMEZONE", cfg.Timezone)
	cfg.Source = l.envString("SOURCE", cfg.Source)

	cfg.HTTP.Timeout = l.envDuration("HTTP_TIMEOUT", cfg.HTTP.Timeout)
	cfg.HTTP.UserAgent = l.envString("USER_AGENT", cfg.HTTP.UserAgent)

	cfg.OpenData.URL = l.envString("OPENDATA_URL", cfg.OpenData.URL)
	// The portal documents its own variable name; the prefixed key wins when both are set.
	l.ConsumedEnvKeys["DATA_GO_KR_API_KEY"] = struct{}{}
	cfg.OpenData.APIKey = ParseString("DATA_GO_KR_API_KEY", cfg.OpenData.APIKey)
	cfg.OpenData.APIKey = l.envString("OPENDATA_API_KEY", cfg.OpenData.APIKey)

	cfg.Embedded.PageURL = l.envString("EMBEDDED_PAGE_URL", cfg.Embedded.PageURL)
	cfg.Embedded.ProxyURL = l.envString("EMBEDDED_PROXY_URL", cfg.Embedded.ProxyURL)
	cfg.International.URL = l.envString("INTERNATIONAL_URL", cfg.International.URL)
	cfg.International.Country = l.envString("COUNTRY", cfg.International.Country)
	cfg.EPG.URL = l.envString("EPG_URL", cfg.EPG.URL)
	cfg.EPG.Channels = l.envString("EPG_CHANNELS", cfg.EPG.Channels)

	cfg.Breaker.Threshold = l.envInt("BREAKER_THRESHOLD", cfg.Breaker.Threshold)
	cfg.Breaker.Reset = l.envDuration("BREAKER_RESET", cfg.Breaker.Reset)

	cfg.Server.Listen = l.envString("LISTEN", cfg.Server.Listen)
	cfg.Server.RateLimit = l.envInt("RATE_LIMIT", cfg.Server.RateLimit)

	cfg.Tracing.Enabled = l.envBool("TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = l.envString("TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = l.envString("TRACING_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = l.envFloat("TRACING_SAMPLING", cfg.Tracing.SamplingRate)
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, field, v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}
