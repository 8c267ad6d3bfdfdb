/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package mysql

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
)

type mySQLSubscriptions struct {
	*mySQLStorage
}

func newSubscriptions(db *sql.DB) *mySQLSubscriptions {
	return &mySQLSubscriptions{mySQLStorage: newStorage(db)}
}

// AddSubscription inserts a new subscription row, filling sub.SubID.
func (s *mySQLSubscriptions) AddSubscription(ctx context.Context, sub *pubsubmodel.Subscription) error {
	subscriber, err := jid.NewWithString(sub.JID, true)
	if err != nil {
		return err
	}
	userhost := subscriber.ToBareJID().String()

	return s.inTransaction(ctx, func(tx *sql.Tx) error {
		nodeID, err := s.fetchNodeID(ctx, tx, sub.Node)
		if err != nil {
			return err
		}
		// ensure the subscriber entity row exists; a concurrent insert of the
		// same bare JID must not abort the transaction
		_, err = sq.Insert("pubsub_entities").
			Columns("jid").
			Values(userhost).
			Suffix("ON DUPLICATE KEY UPDATE jid = jid").
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return err
		}
		sub.SubID = uuid.New().String()

		// type and depth only apply to collection subscriptions; store NULL when unset
		_, err = sq.Insert("pubsub_subscriptions").
			Columns("node_id", "entity_id", "resource", "subscription_id", "state", "subscription_type", "subscription_depth").
			Values(
				nodeID,
				sq.Expr("(SELECT entity_id FROM pubsub_entities WHERE jid = ?)", userhost),
				subscriber.Resource(),
				sub.SubID,
				sub.State,
				sql.NullString{String: sub.Type, Valid: len(sub.Type) > 0},
				sql.NullInt64{Int64: int64(sub.Depth), Valid: sub.Depth > 0},
			).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			if isDuplicateEntry(err) {
				return repository.ErrSubscriptionExists
			}
			return err
		}
		return nil
	})
}

// DeleteSubscription removes the subscription matching the exact (entity, resource) pair.
func (s *mySQLSubscriptions) DeleteSubscription(ctx context.Context, node string, subscriber *jid.JID) error {
	return s.inTransaction(ctx, func(tx *sql.Tx) error {
		nodeID, err := s.fetchNodeID(ctx, tx, node)
		if err != nil {
			return err
		}
		res, err := sq.Delete("pubsub_subscriptions").
			Where(sq.And{
				sq.Eq{"node_id": nodeID},
				sq.Expr("entity_id = (SELECT entity_id FROM pubsub_entities WHERE jid = ?)", subscriber.ToBareJID().String()),
				sq.Eq{"resource": subscriber.Resource()},
			}).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return repository.ErrNotSubscribed
		}
		return nil
	})
}

// FetchSubscription retrieves the subscription held by the exact (entity, resource) pair, or nil.
func (s *mySQLSubscriptions) FetchSubscription(ctx context.Context, node string, subscriber *jid.JID) (*pubsubmodel.Subscription, error) {
	if _, err := s.fetchNodeID(ctx, s.db, node); err != nil {
		return nil, err
	}
	var subType sql.NullString
	var subDepth sql.NullInt64

	sub := pubsubmodel.Subscription{Node: node, JID: subscriber.String()}

	err := sq.Select("subscription_id", "state", "subscription_type", "subscription_depth").
		From("pubsub_subscriptions").
		Join("pubsub_nodes USING (node_id)").
		Join("pubsub_entities USING (entity_id)").
		Where(sq.And{
			sq.Eq{"node": node},
			sq.Eq{"jid": subscriber.ToBareJID().String()},
			sq.Eq{"resource": subscriber.Resource()},
		}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&sub.SubID, &sub.State, &subType, &subDepth)
	switch err {
	case nil:
		sub.Type = subType.String
		sub.Depth = int(subDepth.Int64)
		return &sub, nil
	case sql.ErrNoRows:
		return nil, nil
	default:
		return nil, err
	}
}

// FetchNodeSubscriptions lists all subscriptions of a node, optionally filtered by state.
func (s *mySQLSubscriptions) FetchNodeSubscriptions(ctx context.Context, node string, state string) ([]pubsubmodel.Subscription, error) {
	if _, err := s.fetchNodeID(ctx, s.db, node); err != nil {
		return nil, err
	}
	q := sq.Select("node", "jid", "resource", "subscription_id", "state", "subscription_type", "subscription_depth").
		From("pubsub_subscriptions").
		Join("pubsub_nodes USING (node_id)").
		Join("pubsub_entities USING (entity_id)").
		Where(sq.Eq{"node": node})
	if len(state) > 0 {
		q = q.Where(sq.Eq{"state": state})
	}
	rows, err := q.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSubscriptions(rows)
}

// IsSubscribed tells whether any resource of entity holds a 'subscribed' subscription on the node.
func (s *mySQLSubscriptions) IsSubscribed(ctx context.Context, node string, entity *jid.JID) (bool, error) {
	if _, err := s.fetchNodeID(ctx, s.db, node); err != nil {
		return false, err
	}
	var count int

	err := sq.Select("COUNT(1)").
		From("pubsub_subscriptions").
		Join("pubsub_nodes USING (node_id)").
		Join("pubsub_entities USING (entity_id)").
		Where(sq.And{
			sq.Eq{"node": node},
			sq.Eq{"jid": entity.ToBareJID().String()},
			sq.Eq{"state": pubsubmodel.Subscribed},
		}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FetchSubscriptions returns every subscription held by entity across all nodes.
func (s *mySQLSubscriptions) FetchSubscriptions(ctx context.Context, entity *jid.JID) ([]pubsubmodel.Subscription, error) {
	rows, err := sq.Select("node", "jid", "resource", "subscription_id", "state", "subscription_type", "subscription_depth").
		From("pubsub_subscriptions").
		Join("pubsub_nodes USING (node_id)").
		Join("pubsub_entities USING (entity_id)").
		Where(sq.Eq{"jid": entity.ToBareJID().String()}).
		RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSubscriptions(rows)
}

func scanSubscriptions(rows *sql.Rows) ([]pubsubmodel.Subscription, error) {
	var subscriptions []pubsubmodel.Subscription
	for rows.Next() {
		var sub pubsubmodel.Subscription
		var userhost, resource string
		var subType sql.NullString
		var subDepth sql.NullInt64

		if err := rows.Scan(&sub.Node, &userhost, &resource, &sub.SubID, &sub.State, &subType, &subDepth); err != nil {
			return nil, err
		}
		// reassemble subscriber address as user@host/resource
		sub.JID = userhost
		if len(resource) > 0 {
			sub.JID += "/" + resource
		}
		sub.Type = subType.String
		sub.Depth = int(subDepth.Int64)

		subscriptions = append(subscriptions, sub)
	}
	return subscriptions, nil
}
