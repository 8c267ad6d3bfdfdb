/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package memorystorage

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/model/serializer"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
)

// Subscriptions represents an in-memory subscription storage.
type Subscriptions struct {
	*memoryStorage
}

// AddSubscription inserts a new subscription entity into storage, filling sub.SubID.
func (m *Subscriptions) AddSubscription(_ context.Context, sub *pubsubmodel.Subscription) error {
	subscriber, err := jid.NewWithString(sub.JID, true)
	if err != nil {
		return err
	}
	return m.inWriteLock(func() error {
		if _, ok := m.b[pubSubNodesKey(sub.Node)]; !ok {
			return repository.ErrNodeNotFound
		}
		var subscriptions []pubsubmodel.Subscription
		if b := m.b[pubSubSubscriptionsKey(sub.Node)]; b != nil {
			if err := serializer.DeserializeSlice(b, &subscriptions); err != nil {
				return err
			}
		}
		for _, s := range subscriptions {
			if sameSubscriber(s.JID, subscriber) {
				return repository.ErrSubscriptionExists
			}
		}
		sub.SubID = uuid.New().String()
		subscriptions = append(subscriptions, *sub)

		b, err := serializer.SerializeSlice(&subscriptions)
		if err != nil {
			return err
		}
		m.b[pubSubSubscriptionsKey(sub.Node)] = b
		return nil
	})
}

// DeleteSubscription removes the subscription matching the exact (entity, resource) pair.
func (m *Subscriptions) DeleteSubscription(_ context.Context, node string, subscriber *jid.JID) error {
	return m.inWriteLock(func() error {
		if _, ok := m.b[pubSubNodesKey(node)]; !ok {
			return repository.ErrNodeNotFound
		}
		var subscriptions []pubsubmodel.Subscription
		if b := m.b[pubSubSubscriptionsKey(node)]; b != nil {
			if err := serializer.DeserializeSlice(b, &subscriptions); err != nil {
				return err
			}
		}
		var deleted bool
		for i, s := range subscriptions {
			if sameSubscriber(s.JID, subscriber) {
				subscriptions = append(subscriptions[:i], subscriptions[i+1:]...)
				deleted = true
				break
			}
		}
		if !deleted {
			return repository.ErrNotSubscribed
		}
		b, err := serializer.SerializeSlice(&subscriptions)
		if err != nil {
			return err
		}
		m.b[pubSubSubscriptionsKey(node)] = b
		return nil
	})
}

// FetchSubscription retrieves the subscription held by the exact (entity, resource) pair, or nil.
func (m *Subscriptions) FetchSubscription(ctx context.Context, node string, subscriber *jid.JID) (*pubsubmodel.Subscription, error) {
	subscriptions, err := m.FetchNodeSubscriptions(ctx, node, "")
	if err != nil {
		return nil, err
	}
	for _, sub := range subscriptions {
		if sameSubscriber(sub.JID, subscriber) {
			return &sub, nil
		}
	}
	return nil, nil
}

// FetchNodeSubscriptions lists all subscriptions of a node, optionally filtered by state.
func (m *Subscriptions) FetchNodeSubscriptions(_ context.Context, node string, state string) ([]pubsubmodel.Subscription, error) {
	var b []byte
	if err := m.inReadLock(func() error {
		if _, ok := m.b[pubSubNodesKey(node)]; !ok {
			return repository.ErrNodeNotFound
		}
		b = m.b[pubSubSubscriptionsKey(node)]
		return nil
	}); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var subscriptions []pubsubmodel.Subscription
	if err := serializer.DeserializeSlice(b, &subscriptions); err != nil {
		return nil, err
	}
	if len(state) == 0 {
		return subscriptions, nil
	}
	var filtered []pubsubmodel.Subscription
	for _, sub := range subscriptions {
		if sub.State == state {
			filtered = append(filtered, sub)
		}
	}
	return filtered, nil
}

// IsSubscribed tells whether any resource of entity holds a 'subscribed' subscription on the node.
func (m *Subscriptions) IsSubscribed(ctx context.Context, node string, entity *jid.JID) (bool, error) {
	subscriptions, err := m.FetchNodeSubscriptions(ctx, node, pubsubmodel.Subscribed)
	if err != nil {
		return false, err
	}
	userhost := entity.ToBareJID().String()
	for _, sub := range subscriptions {
		if subscriberUserhost(sub.JID) == userhost {
			return true, nil
		}
	}
	return false, nil
}

// FetchSubscriptions returns every subscription held by entity across all nodes.
func (m *Subscriptions) FetchSubscriptions(_ context.Context, entity *jid.JID) ([]pubsubmodel.Subscription, error) {
	userhost := entity.ToBareJID().String()

	var subscriptions []pubsubmodel.Subscription
	if err := m.inReadLock(func() error {
		for k, b := range m.b {
			if !strings.HasPrefix(k, "pubSubSubscriptions:") {
				continue
			}
			var nodeSubscriptions []pubsubmodel.Subscription
			if err := serializer.DeserializeSlice(b, &nodeSubscriptions); err != nil {
				return err
			}
			for _, sub := range nodeSubscriptions {
				if subscriberUserhost(sub.JID) == userhost {
					subscriptions = append(subscriptions, sub)
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// sameSubscriber tells whether a stored subscriber address matches the exact
// (entity, resource) pair of subscriber.
func sameSubscriber(stored string, subscriber *jid.JID) bool {
	j, err := jid.NewWithString(stored, true)
	if err != nil {
		return false
	}
	return j.Matches(subscriber, jid.MatchesBare|jid.MatchesResource)
}

func subscriberUserhost(stored string) string {
	j, err := jid.NewWithString(stored, true)
	if err != nil {
		return ""
	}
	return j.ToBareJID().String()
}
