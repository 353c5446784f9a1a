// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package envelope

import "errors"

var (
	// ErrInvalidArgument classifies malformed envelope construction (empty tag,
	// unpaired key/value list, non-string key). It is returned to the caller and
	// never delivered on the bus.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownCause stands in for a nil cause on error envelopes.
	ErrUnknownCause = errors.New("unknown cause")
)
