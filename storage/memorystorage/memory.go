/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package memorystorage

import (
	"context"

	"github.com/goxep/idavoll/storage/repository"
)

type memoryContainer struct {
	nodes         *Nodes
	affiliations  *Affiliations
	subscriptions *Subscriptions
	items         *Items
	callbacks     *Callbacks
}

// New initializes in memory storage and returns an associated repository container.
// All repositories share a single key space so node deletion cascades across them.
func New() (repository.Container, error) {
	var c memoryContainer

	s := newStorage()
	c.nodes = &Nodes{memoryStorage: s}
	c.affiliations = &Affiliations{memoryStorage: s}
	c.subscriptions = &Subscriptions{memoryStorage: s}
	c.items = &Items{memoryStorage: s}
	c.callbacks = &Callbacks{memoryStorage: s}
	return &c, nil
}

func (c *memoryContainer) Nodes() repository.Nodes                 { return c.nodes }
func (c *memoryContainer) Affiliations() repository.Affiliations   { return c.affiliations }
func (c *memoryContainer) Subscriptions() repository.Subscriptions { return c.subscriptions }
func (c *memoryContainer) Items() repository.Items                 { return c.items }
func (c *memoryContainer) Callbacks() repository.Callbacks         { return c.callbacks }

func (c *memoryContainer) Close(_ context.Context) error { return nil }

func (c *memoryContainer) IsClusterCompatible() bool { return false }
