/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pubsubmodel

import (
	"bytes"
	"encoding/gob"
	"time"
)

// Item represents a pubsub node item.
// Payload is kept as an opaque XML string; parsing belongs to the protocol layer.
type Item struct {
	ID          string
	Publisher   string
	Payload     string
	AccessModel string
	Groups      []string
	CreatedAt   time.Time
}

// FromBytes deserializes an Item entity from its binary representation.
func (i *Item) FromBytes(buf *bytes.Buffer) error {
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(&i.ID); err != nil {
		return err
	}
	if err := dec.Decode(&i.Publisher); err != nil {
		return err
	}
	if err := dec.Decode(&i.Payload); err != nil {
		return err
	}
	if err := dec.Decode(&i.AccessModel); err != nil {
		return err
	}
	if err := dec.Decode(&i.Groups); err != nil {
		return err
	}
	return dec.Decode(&i.CreatedAt)
}

// ToBytes converts an Item entity to its binary representation.
func (i *Item) ToBytes(buf *bytes.Buffer) error {
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(i.ID); err != nil {
		return err
	}
	if err := enc.Encode(i.Publisher); err != nil {
		return err
	}
	if err := enc.Encode(i.Payload); err != nil {
		return err
	}
	if err := enc.Encode(i.AccessModel); err != nil {
		return err
	}
	if err := enc.Encode(i.Groups); err != nil {
		return err
	}
	return enc.Encode(i.CreatedAt)
}
