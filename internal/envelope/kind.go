// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package envelope

// Kind identifies the envelope variant. It doubles as the bus channel.
type Kind uint8

const (
	KindAction Kind = iota + 1
	KindActionError
	KindReaction
	KindStoreChangeError
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{KindAction, KindActionError, KindReaction, KindStoreChangeError}

// String returns the metric/log label for the kind.
func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindActionError:
		return "action_error"
	case KindReaction:
		return "reaction"
	case KindStoreChangeError:
		return "store_change_error"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindAction && k <= KindStoreChangeError
}
