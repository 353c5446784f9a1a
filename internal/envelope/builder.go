// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package envelope

import "fmt"

// Builder accumulates payload entries for an Action or Reaction.
// A Builder is not safe for concurrent use.
type Builder struct {
	kind Kind
	tag  string
	data map[string]any
}

// NewActionBuilder starts an Action with the given tag.
func NewActionBuilder(tag string) *Builder {
	return &Builder{kind: KindAction, tag: tag, data: make(map[string]any)}
}

// NewReactionBuilder starts a Reaction with the given tag.
func NewReactionBuilder(tag string) *Builder {
	return &Builder{kind: KindReaction, tag: tag, data: make(map[string]any)}
}

// Put stores value under key; the last Put for a key wins.
func (b *Builder) Put(key string, value any) *Builder {
	b.data[key] = value
	return b
}

// Build returns the finished envelope.
func (b *Builder) Build() (Envelope, error) {
	if b.tag == "" {
		return nil, fmt.Errorf("%w: %s tag must not be empty", ErrInvalidArgument, b.kind)
	}
	p := Payload{}
	if len(b.data) > 0 {
		p = Payload{data: make(map[string]any, len(b.data))}
		for k, v := range b.data {
			p.data[k] = v
		}
	}
	h := newHeader(b.tag)
	switch b.kind {
	case KindAction:
		return Action{header: h, payload: p}, nil
	case KindReaction:
		return Reaction{header: h, payload: p}, nil
	default:
		return nil, fmt.Errorf("%w: builder kind %s", ErrInvalidArgument, b.kind)
	}
}
