/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pubsubmodel

import (
	"bytes"
	"encoding/gob"
)

// affiliation definitions
const (
	// Owner represents 'owner' affiliation.
	Owner = "owner"

	// Admin represents 'admin' affiliation.
	Admin = "admin"

	// Publisher represents 'publisher' affiliation.
	Publisher = "publisher"

	// Member represents 'member' affiliation.
	Member = "member"

	// None represents 'none' affiliation.
	None = "none"

	// Outcast represents 'outcast' affiliation.
	Outcast = "outcast"
)

// Affiliation represents a pubsub node affiliation.
type Affiliation struct {
	Node        string
	JID         string
	Affiliation string
}

// FromBytes deserializes an Affiliation entity from its binary representation.
func (a *Affiliation) FromBytes(buf *bytes.Buffer) error {
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(&a.Node); err != nil {
		return err
	}
	if err := dec.Decode(&a.JID); err != nil {
		return err
	}
	return dec.Decode(&a.Affiliation)
}

// ToBytes converts an Affiliation entity to its binary representation.
func (a *Affiliation) ToBytes(buf *bytes.Buffer) error {
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(a.Node); err != nil {
		return err
	}
	if err := enc.Encode(a.JID); err != nil {
		return err
	}
	return enc.Encode(a.Affiliation)
}
