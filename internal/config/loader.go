// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment keys consumed by the loader.
const (
	EnvLogLevel        = "FLUXION_LOG_LEVEL"
	EnvLogService      = "FLUXION_LOG_SERVICE"
	EnvListen          = "FLUXION_LISTEN"
	EnvAPIRateLimit    = "FLUXION_API_RATE_LIMIT"
	EnvSlowDelivery    = "FLUXION_SLOW_DELIVERY"
	EnvTracingEnabled  = "FLUXION_TRACING_ENABLED"
	EnvTracingExporter = "FLUXION_TRACING_EXPORTER"
	EnvTracingEndpoint = "FLUXION_TRACING_ENDPOINT"
	EnvTracingSampling = "FLUXION_TRACING_SAMPLING"
	EnvEchoRejectTags  = "FLUXION_ECHO_REJECT_TAGS"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. An empty configPath means
// ENV + defaults only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the file the loader reads, if any.
func (l *Loader) Path() string {
	return l.configPath
}

// Load loads configuration with precedence: ENV > File > Defaults, then validates it.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()
	cfg.Version = l.version

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath, cfg)
		if err != nil {
			return AppConfig{}, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
		cfg = fileCfg
	}

	l.mergeEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// loadFile decodes path strictly on top of base so omitted keys keep their defaults.
func (l *Loader) loadFile(path string, base AppConfig) (AppConfig, error) {
	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read file: %w", err)
	}

	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return AppConfig{}, fmt.Errorf("strict config parse error: %w: %v", ErrUnknownConfigField, err)
		}
		return AppConfig{}, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return AppConfig{}, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return cfg, nil
}

func (l *Loader) consume(key string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return key
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.Log.Level = ParseString(l.consume(EnvLogLevel), cfg.Log.Level)
	cfg.Log.Service = ParseString(l.consume(EnvLogService), cfg.Log.Service)
	cfg.API.ListenAddr = ParseString(l.consume(EnvListen), cfg.API.ListenAddr)
	cfg.API.RateLimit = ParseInt(l.consume(EnvAPIRateLimit), cfg.API.RateLimit)
	cfg.Bus.SlowDeliveryThreshold = ParseDuration(l.consume(EnvSlowDelivery), cfg.Bus.SlowDeliveryThreshold)
	cfg.Tracing.Enabled = ParseBool(l.consume(EnvTracingEnabled), cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = ParseString(l.consume(EnvTracingExporter), cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = ParseString(l.consume(EnvTracingEndpoint), cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = ParseFloat(l.consume(EnvTracingSampling), cfg.Tracing.SamplingRate)

	if raw := ParseString(l.consume(EnvEchoRejectTags), ""); raw != "" {
		var tags []string
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		cfg.Echo.RejectTags = tags
	}
}
