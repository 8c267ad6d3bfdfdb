/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package memorystorage

import (
	"context"
	"testing"

	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageAddSubscription(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)

	c := newContainer(t)

	sub := pubsubmodel.Subscription{
		Node:  "princely_musings",
		JID:   "bob@idavoll.im/chamber",
		State: pubsubmodel.Subscribed,
		Type:  pubsubmodel.TypeNodes,
	}
	err := c.Subscriptions().AddSubscription(context.Background(), &sub)
	require.Equal(t, repository.ErrNodeNotFound, err)

	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner))

	err = c.Subscriptions().AddSubscription(context.Background(), &sub)
	require.Nil(t, err)
	require.NotEmpty(t, sub.SubID)

	// duplicate (entity, resource) pair
	dup := pubsubmodel.Subscription{
		Node:  "princely_musings",
		JID:   "bob@idavoll.im/chamber",
		State: pubsubmodel.Subscribed,
	}
	err = c.Subscriptions().AddSubscription(context.Background(), &dup)
	require.Equal(t, repository.ErrSubscriptionExists, err)

	// another resource of the same entity may subscribe
	other := pubsubmodel.Subscription{
		Node:  "princely_musings",
		JID:   "bob@idavoll.im/hall",
		State: pubsubmodel.Pending,
	}
	err = c.Subscriptions().AddSubscription(context.Background(), &other)
	require.Nil(t, err)
	require.NotEqual(t, sub.SubID, other.SubID)
}

func TestMemoryStorageDeleteSubscription(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)
	subscriber, _ := jid.New("bob", "idavoll.im", "chamber", true)

	c := newContainer(t)
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner))

	sub := pubsubmodel.Subscription{
		Node:  "princely_musings",
		JID:   subscriber.String(),
		State: pubsubmodel.Subscribed,
	}
	require.Nil(t, c.Subscriptions().AddSubscription(context.Background(), &sub))

	require.Nil(t, c.Subscriptions().DeleteSubscription(context.Background(), "princely_musings", subscriber))

	// unsubscribing twice fails
	err := c.Subscriptions().DeleteSubscription(context.Background(), "princely_musings", subscriber)
	require.Equal(t, repository.ErrNotSubscribed, err)
}

func TestMemoryStorageFetchSubscription(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)
	subscriber, _ := jid.New("bob", "idavoll.im", "chamber", true)

	c := newContainer(t)
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner))

	sub, err := c.Subscriptions().FetchSubscription(context.Background(), "princely_musings", subscriber)
	require.Nil(t, err)
	require.Nil(t, sub)

	added := pubsubmodel.Subscription{
		Node:  "princely_musings",
		JID:   subscriber.String(),
		State: pubsubmodel.Pending,
	}
	require.Nil(t, c.Subscriptions().AddSubscription(context.Background(), &added))

	sub, err = c.Subscriptions().FetchSubscription(context.Background(), "princely_musings", subscriber)
	require.Nil(t, err)
	require.NotNil(t, sub)
	require.Equal(t, added.SubID, sub.SubID)
	require.Equal(t, pubsubmodel.Pending, sub.State)
}

func TestMemoryStorageFetchNodeSubscriptions(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)

	c := newContainer(t)
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner))

	subscribed := pubsubmodel.Subscription{Node: "princely_musings", JID: "bob@idavoll.im/chamber", State: pubsubmodel.Subscribed}
	pending := pubsubmodel.Subscription{Node: "princely_musings", JID: "carol@idavoll.im/hall", State: pubsubmodel.Pending}

	require.Nil(t, c.Subscriptions().AddSubscription(context.Background(), &subscribed))
	require.Nil(t, c.Subscriptions().AddSubscription(context.Background(), &pending))

	all, err := c.Subscriptions().FetchNodeSubscriptions(context.Background(), "princely_musings", "")
	require.Nil(t, err)
	require.Len(t, all, 2)

	onlyPending, err := c.Subscriptions().FetchNodeSubscriptions(context.Background(), "princely_musings", pubsubmodel.Pending)
	require.Nil(t, err)
	require.Len(t, onlyPending, 1)
	require.Equal(t, "carol@idavoll.im/hall", onlyPending[0].JID)
}

func TestMemoryStorageIsSubscribed(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)
	entity, _ := jid.NewWithString("bob@idavoll.im", true)

	c := newContainer(t)
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner))

	subscribed, err := c.Subscriptions().IsSubscribed(context.Background(), "princely_musings", entity)
	require.Nil(t, err)
	require.False(t, subscribed)

	// a pending subscription does not count
	pending := pubsubmodel.Subscription{Node: "princely_musings", JID: "bob@idavoll.im/chamber", State: pubsubmodel.Pending}
	require.Nil(t, c.Subscriptions().AddSubscription(context.Background(), &pending))

	subscribed, err = c.Subscriptions().IsSubscribed(context.Background(), "princely_musings", entity)
	require.Nil(t, err)
	require.False(t, subscribed)

	active := pubsubmodel.Subscription{Node: "princely_musings", JID: "bob@idavoll.im/hall", State: pubsubmodel.Subscribed}
	require.Nil(t, c.Subscriptions().AddSubscription(context.Background(), &active))

	subscribed, err = c.Subscriptions().IsSubscribed(context.Background(), "princely_musings", entity)
	require.Nil(t, err)
	require.True(t, subscribed)
}

func TestMemoryStorageFetchSubscriptions(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)
	entity, _ := jid.NewWithString("bob@idavoll.im", true)

	c := newContainer(t)
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner))
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("weather/berlin"), owner))

	s1 := pubsubmodel.Subscription{Node: "princely_musings", JID: "bob@idavoll.im/chamber", State: pubsubmodel.Subscribed}
	s2 := pubsubmodel.Subscription{Node: "weather/berlin", JID: "bob@idavoll.im/chamber", State: pubsubmodel.Subscribed}

	require.Nil(t, c.Subscriptions().AddSubscription(context.Background(), &s1))
	require.Nil(t, c.Subscriptions().AddSubscription(context.Background(), &s2))

	subscriptions, err := c.Subscriptions().FetchSubscriptions(context.Background(), entity)
	require.Nil(t, err)
	require.Len(t, subscriptions, 2)
}
