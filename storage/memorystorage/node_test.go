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

func newContainer(t *testing.T) repository.Container {
	t.Helper()
	c, err := New()
	require.Nil(t, err)
	return c
}

func leafNode(name string) *pubsubmodel.Node {
	return &pubsubmodel.Node{
		Name:    name,
		Type:    pubsubmodel.Leaf,
		Options: pubsubmodel.DefaultOptions(pubsubmodel.Leaf),
	}
}

func TestMemoryStorageCreateNode(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)

	c := newContainer(t)
	err := c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner)
	require.Nil(t, err)

	node, err := c.Nodes().FetchNode(context.Background(), "princely_musings")
	require.Nil(t, err)
	require.NotNil(t, node)
	require.Equal(t, pubsubmodel.Leaf, node.Type)
	require.True(t, node.Options.PersistItems)

	// owner affiliation is created along with the node
	affiliation, err := c.Affiliations().FetchNodeAffiliation(context.Background(), "princely_musings", owner)
	require.Nil(t, err)
	require.NotNil(t, affiliation)
	require.Equal(t, pubsubmodel.Owner, affiliation.Affiliation)
	require.Equal(t, "alice@idavoll.im", affiliation.JID)

	// duplicate node name
	err = c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner)
	require.Equal(t, repository.ErrNodeExists, err)

	// collection nodes are rejected
	collection := &pubsubmodel.Node{
		Name:    "blogs",
		Type:    pubsubmodel.Collection,
		Options: pubsubmodel.DefaultOptions(pubsubmodel.Collection),
	}
	err = c.Nodes().CreateNode(context.Background(), collection, owner)
	require.Equal(t, repository.ErrNoCollections, err)

	EnableMockedError()
	defer DisableMockedError()
	err = c.Nodes().CreateNode(context.Background(), leafNode("weather/berlin"), owner)
	require.Equal(t, errMocked, err)
}

func TestMemoryStorageFetchNode(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)

	c := newContainer(t)
	node, err := c.Nodes().FetchNode(context.Background(), "princely_musings")
	require.Equal(t, repository.ErrNodeNotFound, err)
	require.Nil(t, node)

	opts := pubsubmodel.DefaultOptions(pubsubmodel.Leaf)
	opts.AccessModel = pubsubmodel.Roster
	opts.RosterGroupsAllowed = []string{"friends"}

	err = c.Nodes().CreateNode(context.Background(), &pubsubmodel.Node{
		Name:    "princely_musings",
		Type:    pubsubmodel.Leaf,
		Options: opts,
	}, owner)
	require.Nil(t, err)

	node, err = c.Nodes().FetchNode(context.Background(), "princely_musings")
	require.Nil(t, err)
	require.Equal(t, []string{"friends"}, node.Options.RosterGroupsAllowed)

	groups, err := c.Nodes().FetchNodeGroups(context.Background(), "princely_musings")
	require.Nil(t, err)
	require.Equal(t, []string{"friends"}, groups)
}

func TestMemoryStorageFetchNodeIdentifiers(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)

	c := newContainer(t)
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner))
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("weather/berlin"), owner))

	identifiers, err := c.Nodes().FetchNodeIdentifiers(context.Background())
	require.Nil(t, err)
	require.Len(t, identifiers, 2)
	require.Contains(t, identifiers, "princely_musings")
	require.Contains(t, identifiers, "weather/berlin")
}

func TestMemoryStorageDeleteNode(t *testing.T) {
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
	require.Nil(t, c.Items().StoreItems(context.Background(), "princely_musings", []pubsubmodel.Item{
		{ID: "abc1234", Payload: "<entry/>", AccessModel: pubsubmodel.Open},
	}, owner))

	require.Nil(t, c.Nodes().DeleteNode(context.Background(), "princely_musings"))

	// deletion cascades to dependent entities
	require.Nil(t, c.Nodes().CreateNode(context.Background(), leafNode("princely_musings"), owner))

	items, err := c.Items().FetchItems(context.Background(), "princely_musings", nil, true, 0)
	require.Nil(t, err)
	require.Len(t, items, 0)

	subscriptions, err := c.Subscriptions().FetchNodeSubscriptions(context.Background(), "princely_musings", "")
	require.Nil(t, err)
	require.Len(t, subscriptions, 0)

	// node absent
	err = c.Nodes().DeleteNode(context.Background(), "weather/berlin")
	require.Equal(t, repository.ErrNodeNotFound, err)
}
