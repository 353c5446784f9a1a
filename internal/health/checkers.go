// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"

	"github.com/ManuGH/fluxion/internal/dispatcher"
	"github.com/ManuGH/fluxion/internal/envelope"
)

// ListenerChecker reports unhealthy while a listener key is not registered
// in a dispatcher table.
type ListenerChecker struct {
	dispatcher *dispatcher.Dispatcher
	table      dispatcher.Table
	key        string
}

// NewListenerChecker creates a checker for key in table.
func NewListenerChecker(d *dispatcher.Dispatcher, table dispatcher.Table, key string) *ListenerChecker {
	return &ListenerChecker{dispatcher: d, table: table, key: key}
}

func (c *ListenerChecker) Name() string {
	return "listener:" + string(c.table) + ":" + c.key
}

func (c *ListenerChecker) Check(context.Context) CheckResult {
	if !c.dispatcher.IsRegistered(c.table, c.key) {
		return CheckResult{Status: StatusUnhealthy, Message: "listener not registered"}
	}
	return CheckResult{Status: StatusHealthy, Message: "registered"}
}

// BusChecker reports degraded while envelopes of a kind would reach nobody.
type BusChecker struct {
	dispatcher *dispatcher.Dispatcher
	kinds      []envelope.Kind
}

// NewBusChecker creates a checker over kinds, or over every kind when none are given.
func NewBusChecker(d *dispatcher.Dispatcher, kinds ...envelope.Kind) *BusChecker {
	if len(kinds) == 0 {
		kinds = envelope.Kinds
	}
	return &BusChecker{dispatcher: d, kinds: kinds}
}

func (c *BusChecker) Name() string {
	return "bus"
}

func (c *BusChecker) Check(context.Context) CheckResult {
	b := c.dispatcher.Bus()
	for _, k := range c.kinds {
		if b.LenKind(k) == 0 {
			return CheckResult{
				Status:  StatusDegraded,
				Message: fmt.Sprintf("no subscribers for %s", k),
			}
		}
	}
	return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("%d subscriptions", b.Len())}
}
