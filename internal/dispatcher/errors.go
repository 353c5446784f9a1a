// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package dispatcher

import "errors"

// ErrNilListener is returned when a nil listener is registered.
var ErrNilListener = errors.New("dispatcher: listener cannot be nil")
