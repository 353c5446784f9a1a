// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bus

import "errors"

var (
	// ErrNilHandler is returned when Subscribe is called without a handler.
	ErrNilHandler = errors.New("bus: handler cannot be nil")

	// ErrInvalidKind is returned when Subscribe is called with an undeclared kind.
	ErrInvalidKind = errors.New("bus: invalid envelope kind")
)
