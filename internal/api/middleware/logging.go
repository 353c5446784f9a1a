// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/fluxion/internal/log"
)

// Logging writes one access log line per request.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			level := zerolog.InfoLevel
			switch {
			case sw.statusCode >= 500:
				level = zerolog.ErrorLevel
			case sw.statusCode >= 400:
				level = zerolog.WarnLevel
			case r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics":
				level = zerolog.DebugLevel
			}
			logger := xglog.WithComponentFromContext(r.Context(), "api")
			logger.WithLevel(level).
				Str(xglog.FieldEvent, "http.request").
				Str(xglog.FieldMethod, r.Method).
				Str(xglog.FieldRoute, routePattern(r)).
				Int(xglog.FieldStatus, sw.statusCode).
				Int64(xglog.FieldDurationMS, time.Since(start).Milliseconds()).
				Str(xglog.FieldRemoteAddr, r.RemoteAddr).
				Msg("request completed")
		})
	}
}
