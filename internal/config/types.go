// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the full daemon configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	Log     LogConfig     `yaml:"log"`
	Bus     BusConfig     `yaml:"bus"`
	API     APIConfig     `yaml:"api"`
	Tracing TracingConfig `yaml:"tracing"`
	Echo    EchoConfig    `yaml:"echo"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// BusConfig tunes the broadcast bus.
type BusConfig struct {
	// SlowDeliveryThreshold logs callbacks slower than this; 0 disables.
	SlowDeliveryThreshold time.Duration `yaml:"slowDeliveryThreshold"`
}

// APIConfig configures the admin HTTP API.
type APIConfig struct {
	ListenAddr string `yaml:"listenAddr"`
	// RateLimit is the number of publish requests allowed per minute and client IP.
	RateLimit       int           `yaml:"rateLimit"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// ServerConfig holds the HTTP server settings derived from APIConfig.
type ServerConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	ShutdownTimeout time.Duration
}

// Server returns the HTTP server settings for the admin API.
func (c APIConfig) Server() ServerConfig {
	return ServerConfig{
		ListenAddr:      c.ListenAddr,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     120 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: c.ShutdownTimeout,
	}
}

// TracingConfig configures OTLP span export.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// EchoConfig configures the sample echo store.
type EchoConfig struct {
	// RejectTags lists action tags the echo store answers with an ActionError.
	RejectTags []string `yaml:"rejectTags,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:   "info",
			Service: "fluxiond",
		},
		Bus: BusConfig{
			SlowDeliveryThreshold: 250 * time.Millisecond,
		},
		API: APIConfig{
			ListenAddr:      ":8088",
			RateLimit:       600,
			ShutdownTimeout: 10 * time.Second,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}
