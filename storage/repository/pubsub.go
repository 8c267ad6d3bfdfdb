/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package repository

import (
	"context"

	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/xmpp/jid"
)

// Nodes defines storage operations for pubsub node lifecycle and configuration.
type Nodes interface {
	// CreateNode inserts a new leaf node along with its owner affiliation and,
	// for the roster access model, the allowed group list found in the node options.
	// It returns ErrNoCollections for non-leaf node types and ErrNodeExists on a
	// duplicate node name.
	CreateNode(ctx context.Context, node *pubsubmodel.Node, owner *jid.JID) error

	// FetchNode retrieves a node along with its configuration.
	// It returns ErrNodeNotFound if the node is absent.
	FetchNode(ctx context.Context, name string) (*pubsubmodel.Node, error)

	// FetchNodeIdentifiers returns all node names, in no particular order.
	FetchNodeIdentifiers(ctx context.Context) ([]string, error)

	// DeleteNode deletes a node, cascading to its affiliations, subscriptions,
	// items and group authorization rows. It returns ErrNodeNotFound if the
	// delete affects zero rows.
	DeleteNode(ctx context.Context, name string) error

	// FetchNodeGroups returns the roster groups authorized to interact with a
	// node, or an empty set if the node is unrestricted.
	FetchNodeGroups(ctx context.Context, name string) ([]string, error)
}

// Affiliations defines storage operations for pubsub node affiliations.
type Affiliations interface {
	// FetchAffiliations returns all (node, role) pairs for the given entity across all nodes.
	FetchAffiliations(ctx context.Context, entity *jid.JID) ([]pubsubmodel.Affiliation, error)

	// FetchNodeAffiliation returns the affiliation of an entity on a node,
	// or nil if the entity is not affiliated. It returns ErrNodeNotFound if
	// the node is absent.
	FetchNodeAffiliation(ctx context.Context, node string, entity *jid.JID) (*pubsubmodel.Affiliation, error)

	// FetchNodeAffiliations returns all affiliations associated to a node.
	// It returns ErrNodeNotFound if the node is absent.
	FetchNodeAffiliations(ctx context.Context, node string) ([]pubsubmodel.Affiliation, error)
}

// Subscriptions defines storage operations for pubsub node subscriptions.
type Subscriptions interface {
	// AddSubscription inserts a new subscription row for sub.Node and the
	// (entity, resource) pair of sub.JID, filling sub.SubID. It returns
	// ErrSubscriptionExists on a duplicate triple and ErrNodeNotFound if the
	// node is absent.
	AddSubscription(ctx context.Context, sub *pubsubmodel.Subscription) error

	// DeleteSubscription removes the subscription matching the exact
	// (entity, resource) pair of subscriber. It returns ErrNotSubscribed
	// when zero rows are affected.
	DeleteSubscription(ctx context.Context, node string, subscriber *jid.JID) error

	// FetchSubscription returns the subscription state for the exact
	// (entity, resource) pair of subscriber, or nil if unsubscribed.
	FetchSubscription(ctx context.Context, node string, subscriber *jid.JID) (*pubsubmodel.Subscription, error)

	// FetchNodeSubscriptions lists all subscriptions of a node, optionally
	// filtered to a given state when state is non-empty.
	FetchNodeSubscriptions(ctx context.Context, node string, state string) ([]pubsubmodel.Subscription, error)

	// IsSubscribed tells whether any resource of entity holds a 'subscribed'
	// state subscription on the node.
	IsSubscribed(ctx context.Context, node string, entity *jid.JID) (bool, error)

	// FetchSubscriptions returns every subscription held by entity across all nodes.
	FetchSubscriptions(ctx context.Context, entity *jid.JID) ([]pubsubmodel.Subscription, error)
}

// Items defines storage operations for leaf node items.
type Items interface {
	// StoreItems persists a publish batch addressed to one node. Publishing an
	// already existing item identifier overwrites payload, publisher and
	// timestamp in place. For roster restricted items the group authorization
	// list is replaced with the one carried by the item.
	StoreItems(ctx context.Context, node string, items []pubsubmodel.Item, publisher *jid.JID) error

	// DeleteItems removes the given item identifiers and returns the subset
	// that was actually deleted.
	DeleteItems(ctx context.Context, node string, ids []string) ([]string, error)

	// FetchItems returns node items ordered by most recent publish first, up
	// to maxItems when positive. When unrestricted is false only items with an
	// 'open' access model, or a 'roster' model whose authorized groups
	// intersect groups, are returned.
	FetchItems(ctx context.Context, node string, groups []string, unrestricted bool, maxItems int) ([]pubsubmodel.Item, error)

	// FetchItemsWithIDs behaves like FetchItems restricted to a list of item
	// identifiers. Identifiers that are missing or fail the authorization
	// predicate are silently absent from the result; the caller must reconcile
	// which requested ids were actually returned.
	FetchItemsWithIDs(ctx context.Context, node string, groups []string, unrestricted bool, ids []string) ([]pubsubmodel.Item, error)

	// PurgeItems deletes all items of a node.
	PurgeItems(ctx context.Context, node string) error

	// FilterItemsWithPublisher returns the subset of ids whose stored
	// publisher bare JID matches requestor.
	FilterItemsWithPublisher(ctx context.Context, node string, ids []string, requestor *jid.JID) ([]string, error)
}

// Callbacks defines storage operations for the HTTP gateway callback registry.
type Callbacks interface {
	// UpsertCallback registers a callback URI for (service, node). Registering
	// the same URI twice is a no-op.
	UpsertCallback(ctx context.Context, service *jid.JID, node string, uri string) error

	// DeleteCallback unregisters a callback URI. It returns ErrNotSubscribed
	// when nothing was deleted, and reports whether this removal emptied the
	// callback set for (service, node).
	DeleteCallback(ctx context.Context, service *jid.JID, node string, uri string) (last bool, err error)

	// FetchCallbacks returns all callback URIs registered for (service, node).
	// It returns ErrNoCallbacks when the set is empty.
	FetchCallbacks(ctx context.Context, service *jid.JID, node string) ([]string, error)

	// HasCallbacks tells whether (service, node) has any callback registered.
	HasCallbacks(ctx context.Context, service *jid.JID, node string) (bool, error)
}
