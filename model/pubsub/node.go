/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pubsubmodel

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// NodeType represents a pubsub node type.
type NodeType string

const (
	// Leaf represents a node that holds published items.
	Leaf = NodeType("leaf")

	// Collection represents a node that contains other nodes.
	Collection = NodeType("collection")
)

// Node represents a pubsub node entity.
type Node struct {
	Name    string
	Type    NodeType
	Options Options
}

// IsLeaf returns true if the node holds items.
func (n *Node) IsLeaf() bool { return n.Type == Leaf }

// Validate checks node type and configuration consistency.
func (n *Node) Validate() error {
	switch n.Type {
	case Leaf, Collection:
		break
	default:
		return fmt.Errorf("pubsubmodel: invalid node type: %s", n.Type)
	}
	return n.Options.Validate()
}

// FromBytes deserializes a Node entity from its binary representation.
func (n *Node) FromBytes(buf *bytes.Buffer) error {
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(&n.Name); err != nil {
		return err
	}
	if err := dec.Decode(&n.Type); err != nil {
		return err
	}
	return dec.Decode(&n.Options)
}

// ToBytes converts a Node entity to its binary representation.
func (n *Node) ToBytes(buf *bytes.Buffer) error {
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(n.Name); err != nil {
		return err
	}
	if err := enc.Encode(n.Type); err != nil {
		return err
	}
	return enc.Encode(&n.Options)
}
