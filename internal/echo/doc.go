// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package echo contains the listeners fluxiond runs out of the box: a store
// that answers every action with a matching reaction and a view that audits
// whatever comes back.
package echo
