// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Validate checks cfg and reports every problem at once.
func Validate(cfg AppConfig) error {
	var errs []error

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil || cfg.Log.Level == "" {
		errs = append(errs, fmt.Errorf("log.level %q is not a valid level", cfg.Log.Level))
	}
	if cfg.Bus.SlowDeliveryThreshold < 0 {
		errs = append(errs, fmt.Errorf("bus.slowDeliveryThreshold must be >= 0 (got %s)", cfg.Bus.SlowDeliveryThreshold))
	}
	if cfg.API.ListenAddr == "" {
		errs = append(errs, errors.New("api.listenAddr must not be empty"))
	}
	if cfg.API.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("api.rateLimit must be > 0 (got %d)", cfg.API.RateLimit))
	}
	if cfg.API.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("api.shutdownTimeout must be > 0 (got %s)", cfg.API.ShutdownTimeout))
	}
	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Exporter {
		case "grpc", "http":
		default:
			errs = append(errs, fmt.Errorf("tracing.exporter %q is not supported (grpc, http)", cfg.Tracing.Exporter))
		}
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, errors.New("tracing.endpoint must be set when tracing is enabled"))
		}
	}
	if cfg.Tracing.SamplingRate < 0 || cfg.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("tracing.samplingRate must be within [0,1] (got %v)", cfg.Tracing.SamplingRate))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
