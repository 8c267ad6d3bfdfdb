/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pubsubmodel

import (
	"bytes"
	"encoding/gob"
)

// subscription state definitions
const (
	// Pending represents a subscription request awaiting owner approval.
	Pending = "pending"

	// Subscribed represents an active subscription.
	Subscribed = "subscribed"

	// Unsubscribed represents a terminated subscription.
	Unsubscribed = "none"
)

// subscription type definitions, for collection node subscriptions
const (
	// TypeNodes notifies about new child nodes only.
	TypeNodes = "nodes"

	// TypeItems notifies about items published to child nodes.
	TypeItems = "items"
)

// Subscription represents a pubsub node subscription.
// JID carries the full subscriber address; an empty resource is kept empty.
type Subscription struct {
	Node  string
	SubID string
	JID   string
	State string
	Type  string
	Depth int
}

// FromBytes deserializes a Subscription entity from its binary representation.
func (s *Subscription) FromBytes(buf *bytes.Buffer) error {
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(&s.Node); err != nil {
		return err
	}
	if err := dec.Decode(&s.SubID); err != nil {
		return err
	}
	if err := dec.Decode(&s.JID); err != nil {
		return err
	}
	if err := dec.Decode(&s.State); err != nil {
		return err
	}
	if err := dec.Decode(&s.Type); err != nil {
		return err
	}
	return dec.Decode(&s.Depth)
}

// ToBytes converts a Subscription entity to its binary representation.
func (s *Subscription) ToBytes(buf *bytes.Buffer) error {
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(s.Node); err != nil {
		return err
	}
	if err := enc.Encode(s.SubID); err != nil {
		return err
	}
	if err := enc.Encode(s.JID); err != nil {
		return err
	}
	if err := enc.Encode(s.State); err != nil {
		return err
	}
	if err := enc.Encode(s.Type); err != nil {
		return err
	}
	return enc.Encode(s.Depth)
}
