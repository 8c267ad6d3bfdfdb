/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package repository

import "errors"

var (
	// ErrNodeNotFound is returned when an operation addresses a node name with no matching row.
	ErrNodeNotFound = errors.New("repository: node not found")

	// ErrNodeExists is returned when a node creation collides with an existing node name.
	ErrNodeExists = errors.New("repository: node already exists")

	// ErrNoCollections is returned when trying to create a non-leaf node through the leaf creation path.
	ErrNoCollections = errors.New("repository: collection nodes cannot be created")

	// ErrSubscriptionExists is returned on a duplicate (node, entity, resource) subscribe.
	ErrSubscriptionExists = errors.New("repository: already subscribed")

	// ErrNotSubscribed is returned when an unsubscribe or callback removal affects zero rows.
	ErrNotSubscribed = errors.New("repository: not subscribed")

	// ErrNoCallbacks is returned when a callback lookup finds an empty set.
	ErrNoCallbacks = errors.New("repository: no callbacks registered")
)
