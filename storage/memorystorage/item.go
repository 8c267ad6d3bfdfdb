/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package memorystorage

import (
	"context"
	"strings"
	"time"

	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/model/serializer"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
)

// Items represents an in-memory item storage.
type Items struct {
	*memoryStorage
}

// StoreItems persists a publish batch addressed to one node.
func (m *Items) StoreItems(_ context.Context, node string, items []pubsubmodel.Item, publisher *jid.JID) error {
	return m.inWriteLock(func() error {
		if _, ok := m.b[pubSubNodesKey(node)]; !ok {
			return repository.ErrNodeNotFound
		}
		var stored []pubsubmodel.Item
		if b := m.b[pubSubItemsKey(node)]; b != nil {
			if err := serializer.DeserializeSlice(b, &stored); err != nil {
				return err
			}
		}
		for _, item := range items {
			item.Publisher = publisher.String()
			item.CreatedAt = time.Now()
			if item.AccessModel != pubsubmodel.Roster {
				item.Groups = nil
			}
			// a republish keeps items ordered by publish time
			for i, s := range stored {
				if s.ID == item.ID {
					stored = append(stored[:i], stored[i+1:]...)
					break
				}
			}
			stored = append(stored, item)
		}
		b, err := serializer.SerializeSlice(&stored)
		if err != nil {
			return err
		}
		m.b[pubSubItemsKey(node)] = b
		return nil
	})
}

// DeleteItems removes the given item identifiers, returning the subset actually deleted.
func (m *Items) DeleteItems(_ context.Context, node string, ids []string) ([]string, error) {
	var deleted []string

	if err := m.inWriteLock(func() error {
		if _, ok := m.b[pubSubNodesKey(node)]; !ok {
			return repository.ErrNodeNotFound
		}
		var stored []pubsubmodel.Item
		if b := m.b[pubSubItemsKey(node)]; b != nil {
			if err := serializer.DeserializeSlice(b, &stored); err != nil {
				return err
			}
		}
		for _, id := range ids {
			for i, s := range stored {
				if s.ID == id {
					stored = append(stored[:i], stored[i+1:]...)
					deleted = append(deleted, id)
					break
				}
			}
		}
		b, err := serializer.SerializeSlice(&stored)
		if err != nil {
			return err
		}
		m.b[pubSubItemsKey(node)] = b
		return nil
	}); err != nil {
		return nil, err
	}
	return deleted, nil
}

// FetchItems returns node items ordered by most recent publish first.
func (m *Items) FetchItems(_ context.Context, node string, groups []string, unrestricted bool, maxItems int) ([]pubsubmodel.Item, error) {
	stored, err := m.fetchNodeItems(node)
	if err != nil {
		return nil, err
	}
	items := filterItems(stored, groups, unrestricted, nil)
	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}

// FetchItemsWithIDs behaves like FetchItems restricted to a list of item identifiers.
func (m *Items) FetchItemsWithIDs(_ context.Context, node string, groups []string, unrestricted bool, ids []string) ([]pubsubmodel.Item, error) {
	stored, err := m.fetchNodeItems(node)
	if err != nil {
		return nil, err
	}
	return filterItems(stored, groups, unrestricted, ids), nil
}

// PurgeItems deletes all items of a node.
func (m *Items) PurgeItems(_ context.Context, node string) error {
	return m.inWriteLock(func() error {
		if _, ok := m.b[pubSubNodesKey(node)]; !ok {
			return repository.ErrNodeNotFound
		}
		delete(m.b, pubSubItemsKey(node))
		return nil
	})
}

// FilterItemsWithPublisher returns the subset of ids whose stored publisher bare JID matches requestor.
func (m *Items) FilterItemsWithPublisher(_ context.Context, node string, ids []string, requestor *jid.JID) ([]string, error) {
	stored, err := m.fetchNodeItems(node)
	if err != nil {
		return nil, err
	}
	barePrefix := requestor.ToBareJID().String() + "/"

	var filtered []string
	for _, id := range ids {
		for _, item := range stored {
			if item.ID == id && strings.HasPrefix(item.Publisher, barePrefix) {
				filtered = append(filtered, id)
				break
			}
		}
	}
	return filtered, nil
}

func (m *Items) fetchNodeItems(node string) ([]pubsubmodel.Item, error) {
	var b []byte
	if err := m.inReadLock(func() error {
		if _, ok := m.b[pubSubNodesKey(node)]; !ok {
			return repository.ErrNodeNotFound
		}
		b = m.b[pubSubItemsKey(node)]
		return nil
	}); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var items []pubsubmodel.Item
	if err := serializer.DeserializeSlice(b, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// filterItems applies the authorization predicate and an optional identifier
// filter to a chronologically stored item list, returning most recent first.
func filterItems(stored []pubsubmodel.Item, groups []string, unrestricted bool, ids []string) []pubsubmodel.Item {
	var items []pubsubmodel.Item
	for i := len(stored) - 1; i >= 0; i-- {
		item := stored[i]
		if len(ids) > 0 && !containsString(ids, item.ID) {
			continue
		}
		if !unrestricted && !isAuthorized(&item, groups) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func isAuthorized(item *pubsubmodel.Item, groups []string) bool {
	switch item.AccessModel {
	case pubsubmodel.Open:
		return true
	case pubsubmodel.Roster:
		for _, group := range item.Groups {
			if containsString(groups, group) {
				return true
			}
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, el := range set {
		if el == s {
			return true
		}
	}
	return false
}
