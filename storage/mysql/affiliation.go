/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package mysql

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/xmpp/jid"
)

type mySQLAffiliations struct {
	*mySQLStorage
}

func newAffiliations(db *sql.DB) *mySQLAffiliations {
	return &mySQLAffiliations{mySQLStorage: newStorage(db)}
}

// FetchAffiliations returns all (node, role) pairs held by an entity across all nodes.
func (a *mySQLAffiliations) FetchAffiliations(ctx context.Context, entity *jid.JID) ([]pubsubmodel.Affiliation, error) {
	rows, err := sq.Select("node", "jid", "affiliation").
		From("pubsub_affiliations").
		Join("pubsub_nodes USING (node_id)").
		Join("pubsub_entities USING (entity_id)").
		Where(sq.Eq{"jid": entity.ToBareJID().String()}).
		RunWith(a.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanAffiliations(rows)
}

// FetchNodeAffiliation retrieves the affiliation of an entity on a node, or nil if not affiliated.
func (a *mySQLAffiliations) FetchNodeAffiliation(ctx context.Context, node string, entity *jid.JID) (*pubsubmodel.Affiliation, error) {
	// distinguish "no affiliation" from "node absent"
	if _, err := a.fetchNodeID(ctx, a.db, node); err != nil {
		return nil, err
	}
	affiliation := pubsubmodel.Affiliation{Node: node, JID: entity.ToBareJID().String()}

	err := sq.Select("affiliation").
		From("pubsub_affiliations").
		Join("pubsub_nodes USING (node_id)").
		Join("pubsub_entities USING (entity_id)").
		Where(sq.And{sq.Eq{"node": node}, sq.Eq{"jid": affiliation.JID}}).
		RunWith(a.db).QueryRowContext(ctx).Scan(&affiliation.Affiliation)
	switch err {
	case nil:
		return &affiliation, nil
	case sql.ErrNoRows:
		return nil, nil
	default:
		return nil, err
	}
}

// FetchNodeAffiliations returns all affiliations associated to a node.
func (a *mySQLAffiliations) FetchNodeAffiliations(ctx context.Context, node string) ([]pubsubmodel.Affiliation, error) {
	if _, err := a.fetchNodeID(ctx, a.db, node); err != nil {
		return nil, err
	}
	rows, err := sq.Select("node", "jid", "affiliation").
		From("pubsub_affiliations").
		Join("pubsub_nodes USING (node_id)").
		Join("pubsub_entities USING (entity_id)").
		Where(sq.Eq{"node": node}).
		RunWith(a.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanAffiliations(rows)
}

func scanAffiliations(rows *sql.Rows) ([]pubsubmodel.Affiliation, error) {
	var affiliations []pubsubmodel.Affiliation
	for rows.Next() {
		var affiliation pubsubmodel.Affiliation
		if err := rows.Scan(&affiliation.Node, &affiliation.JID, &affiliation.Affiliation); err != nil {
			return nil, err
		}
		affiliations = append(affiliations, affiliation)
	}
	return affiliations, nil
}
