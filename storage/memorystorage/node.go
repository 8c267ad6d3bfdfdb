/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package memorystorage

import (
	"context"
	"strings"

	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/model/serializer"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
)

// Nodes represents an in-memory node storage.
type Nodes struct {
	*memoryStorage
}

// CreateNode inserts a new leaf node entity into storage along with its owner affiliation.
func (m *Nodes) CreateNode(_ context.Context, node *pubsubmodel.Node, owner *jid.JID) error {
	if node.Type != pubsubmodel.Leaf {
		return repository.ErrNoCollections
	}
	if err := node.Options.Validate(); err != nil {
		return err
	}
	b, err := serializer.Serialize(node)
	if err != nil {
		return err
	}
	affiliations := []pubsubmodel.Affiliation{{
		Node:        node.Name,
		JID:         owner.ToBareJID().String(),
		Affiliation: pubsubmodel.Owner,
	}}
	affB, err := serializer.SerializeSlice(&affiliations)
	if err != nil {
		return err
	}
	return m.inWriteLock(func() error {
		if _, ok := m.b[pubSubNodesKey(node.Name)]; ok {
			return repository.ErrNodeExists
		}
		m.b[pubSubNodesKey(node.Name)] = b
		m.b[pubSubAffiliationsKey(node.Name)] = affB
		return nil
	})
}

// FetchNode retrieves from storage a node entity along with its configuration.
func (m *Nodes) FetchNode(_ context.Context, name string) (*pubsubmodel.Node, error) {
	var b []byte
	if err := m.inReadLock(func() error {
		b = m.b[pubSubNodesKey(name)]
		return nil
	}); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, repository.ErrNodeNotFound
	}
	var node pubsubmodel.Node
	if err := serializer.Deserialize(b, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// FetchNodeIdentifiers returns all node names.
func (m *Nodes) FetchNodeIdentifiers(_ context.Context) ([]string, error) {
	var identifiers []string
	if err := m.inReadLock(func() error {
		for k := range m.b {
			if !strings.HasPrefix(k, "pubSubNodes:") {
				continue
			}
			identifiers = append(identifiers, strings.TrimPrefix(k, "pubSubNodes:"))
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return identifiers, nil
}

// DeleteNode deletes a node from storage, cascading to its dependent entities.
func (m *Nodes) DeleteNode(_ context.Context, name string) error {
	return m.inWriteLock(func() error {
		if _, ok := m.b[pubSubNodesKey(name)]; !ok {
			return repository.ErrNodeNotFound
		}
		delete(m.b, pubSubNodesKey(name))
		delete(m.b, pubSubAffiliationsKey(name))
		delete(m.b, pubSubSubscriptionsKey(name))
		delete(m.b, pubSubItemsKey(name))
		return nil
	})
}

// FetchNodeGroups returns the roster groups authorized to interact with a node.
func (m *Nodes) FetchNodeGroups(ctx context.Context, name string) ([]string, error) {
	node, err := m.FetchNode(ctx, name)
	if err != nil {
		return nil, err
	}
	if node.Options.AccessModel != pubsubmodel.Roster {
		return nil, nil
	}
	return node.Options.RosterGroupsAllowed, nil
}

func pubSubNodesKey(name string) string {
	return "pubSubNodes:" + name
}

func pubSubAffiliationsKey(node string) string {
	return "pubSubAffiliations:" + node
}

func pubSubSubscriptionsKey(node string) string {
	return "pubSubSubscriptions:" + node
}

func pubSubItemsKey(node string) string {
	return "pubSubItems:" + node
}

func pubSubCallbacksKey(service, node string) string {
	return "pubSubCallbacks:" + service + ":" + node
}
