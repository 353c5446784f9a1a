// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	prevV, prevC, prevD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = prevV, prevC, prevD })

	Version, Commit, Date = "v1.0.0", "abc123", "2025-01-01"
	assert.Equal(t, "v1.0.0 (commit: abc123, built: 2025-01-01)", String())
}
