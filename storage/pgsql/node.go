/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pgsql

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
)

type pgSQLNodes struct {
	*pgSQLStorage
}

func newNodes(db *sql.DB) *pgSQLNodes {
	return &pgSQLNodes{pgSQLStorage: newStorage(db)}
}

// CreateNode inserts a new leaf node entity into storage along with its owner affiliation.
func (n *pgSQLNodes) CreateNode(ctx context.Context, node *pubsubmodel.Node, owner *jid.JID) error {
	if node.Type != pubsubmodel.Leaf {
		return repository.ErrNoCollections
	}
	if err := node.Options.Validate(); err != nil {
		return err
	}
	ownerJID := owner.ToBareJID().String()

	return n.inTransaction(ctx, func(tx *sql.Tx) error {
		_, err := sq.Insert("pubsub_nodes").
			Columns("node", "node_type", "persist_items", "deliver_payloads", "send_last_published_item", "access_model", "publish_model", "created_at").
			Values(node.Name, node.Type, node.Options.PersistItems, node.Options.DeliverPayloads, node.Options.SendLastPublishedItem, node.Options.AccessModel, node.Options.PublishModel, nowExpr).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrNodeExists
			}
			return err
		}
		nodeID, err := n.fetchNodeID(ctx, tx, node.Name)
		if err != nil {
			return err
		}
		// ensure the owner entity row exists; a concurrent insert of the same
		// bare JID must not abort the transaction
		_, err = sq.Insert("pubsub_entities").
			Columns("jid").
			Values(ownerJID).
			Suffix("ON CONFLICT (jid) DO NOTHING").
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return err
		}
		_, err = sq.Insert("pubsub_affiliations").
			Columns("node_id", "entity_id", "affiliation").
			Values(nodeID, sq.Expr("(SELECT entity_id FROM pubsub_entities WHERE jid = ?)", ownerJID), pubsubmodel.Owner).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return err
		}
		if node.Options.AccessModel == pubsubmodel.Roster {
			for _, group := range node.Options.RosterGroupsAllowed {
				_, err = sq.Insert("pubsub_node_groups_authorized").
					Columns("node_id", "groupname").
					Values(nodeID, group).
					RunWith(tx).ExecContext(ctx)
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// FetchNode retrieves from storage a node entity along with its configuration.
func (n *pgSQLNodes) FetchNode(ctx context.Context, name string) (*pubsubmodel.Node, error) {
	q := sq.Select("node_type", "persist_items", "deliver_payloads", "send_last_published_item", "access_model", "publish_model").
		From("pubsub_nodes").
		Where(sq.Eq{"node": name})

	node := pubsubmodel.Node{Name: name}

	err := q.RunWith(n.db).QueryRowContext(ctx).Scan(
		&node.Type,
		&node.Options.PersistItems,
		&node.Options.DeliverPayloads,
		&node.Options.SendLastPublishedItem,
		&node.Options.AccessModel,
		&node.Options.PublishModel,
	)
	switch err {
	case nil:
		break
	case sql.ErrNoRows:
		return nil, repository.ErrNodeNotFound
	default:
		return nil, err
	}
	if node.Options.AccessModel == pubsubmodel.Roster {
		groups, err := n.FetchNodeGroups(ctx, name)
		if err != nil {
			return nil, err
		}
		node.Options.RosterGroupsAllowed = groups
	}
	return &node, nil
}

// FetchNodeIdentifiers returns all node names.
func (n *pgSQLNodes) FetchNodeIdentifiers(ctx context.Context) ([]string, error) {
	rows, err := sq.Select("node").
		From("pubsub_nodes").
		RunWith(n.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var identifiers []string
	for rows.Next() {
		var identifier string
		if err := rows.Scan(&identifier); err != nil {
			return nil, err
		}
		identifiers = append(identifiers, identifier)
	}
	return identifiers, nil
}

// DeleteNode deletes a node from storage, cascading to its dependent rows.
func (n *pgSQLNodes) DeleteNode(ctx context.Context, name string) error {
	res, err := sq.Delete("pubsub_nodes").
		Where(sq.Eq{"node": name}).
		RunWith(n.db).ExecContext(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNodeNotFound
	}
	return nil
}

// FetchNodeGroups returns the roster groups authorized to interact with a node.
func (n *pgSQLNodes) FetchNodeGroups(ctx context.Context, name string) ([]string, error) {
	rows, err := sq.Select("groupname").
		From("pubsub_node_groups_authorized").
		Join("pubsub_nodes USING (node_id)").
		Where(sq.Eq{"node": name}).
		RunWith(n.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var groups []string
	for rows.Next() {
		var group string
		if err := rows.Scan(&group); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}
