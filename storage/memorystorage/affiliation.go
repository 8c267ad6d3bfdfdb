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

// Affiliations represents an in-memory affiliation storage.
type Affiliations struct {
	*memoryStorage
}

// FetchAffiliations returns all (node, role) pairs held by an entity across all nodes.
func (m *Affiliations) FetchAffiliations(_ context.Context, entity *jid.JID) ([]pubsubmodel.Affiliation, error) {
	userhost := entity.ToBareJID().String()

	var affiliations []pubsubmodel.Affiliation
	if err := m.inReadLock(func() error {
		for k, b := range m.b {
			if !strings.HasPrefix(k, "pubSubAffiliations:") {
				continue
			}
			var nodeAffiliations []pubsubmodel.Affiliation
			if err := serializer.DeserializeSlice(b, &nodeAffiliations); err != nil {
				return err
			}
			for _, affiliation := range nodeAffiliations {
				if affiliation.JID == userhost {
					affiliations = append(affiliations, affiliation)
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return affiliations, nil
}

// FetchNodeAffiliation retrieves the affiliation of an entity on a node, or nil if not affiliated.
func (m *Affiliations) FetchNodeAffiliation(ctx context.Context, node string, entity *jid.JID) (*pubsubmodel.Affiliation, error) {
	affiliations, err := m.FetchNodeAffiliations(ctx, node)
	if err != nil {
		return nil, err
	}
	userhost := entity.ToBareJID().String()
	for _, affiliation := range affiliations {
		if affiliation.JID == userhost {
			return &affiliation, nil
		}
	}
	return nil, nil
}

// FetchNodeAffiliations returns all affiliations associated to a node.
func (m *Affiliations) FetchNodeAffiliations(_ context.Context, node string) ([]pubsubmodel.Affiliation, error) {
	var b []byte
	if err := m.inReadLock(func() error {
		if _, ok := m.b[pubSubNodesKey(node)]; !ok {
			return repository.ErrNodeNotFound
		}
		b = m.b[pubSubAffiliationsKey(node)]
		return nil
	}); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var affiliations []pubsubmodel.Affiliation
	if err := serializer.DeserializeSlice(b, &affiliations); err != nil {
		return nil, err
	}
	return affiliations, nil
}
