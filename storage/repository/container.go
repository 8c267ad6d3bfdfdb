/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package repository

import "context"

// Container interface brings together all repository instances.
type Container interface {
	// Nodes method returns repository.Nodes concrete implementation.
	Nodes() Nodes

	// Affiliations method returns repository.Affiliations concrete implementation.
	Affiliations() Affiliations

	// Subscriptions method returns repository.Subscriptions concrete implementation.
	Subscriptions() Subscriptions

	// Items method returns repository.Items concrete implementation.
	Items() Items

	// Callbacks method returns repository.Callbacks concrete implementation.
	Callbacks() Callbacks

	// Close closes underlying storage resources, commonly shared across repositories.
	Close(ctx context.Context) error

	// IsClusterCompatible tells whether or not container instance can be safely used across multiple cluster nodes.
	IsClusterCompatible() bool
}
