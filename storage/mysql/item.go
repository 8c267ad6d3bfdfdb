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

type mySQLItems struct {
	*mySQLStorage
}

func newItems(db *sql.DB) *mySQLItems {
	return &mySQLItems{mySQLStorage: newStorage(db)}
}

// StoreItems persists a publish batch addressed to one node.
func (i *mySQLItems) StoreItems(ctx context.Context, node string, items []pubsubmodel.Item, publisher *jid.JID) error {
	return i.inTransaction(ctx, func(tx *sql.Tx) error {
		nodeID, err := i.fetchNodeID(ctx, tx, node)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := i.storeItem(ctx, tx, nodeID, &item, publisher); err != nil {
				return err
			}
		}
		return nil
	})
}

func (i *mySQLItems) storeItem(ctx context.Context, tx *sql.Tx, nodeID int64, item *pubsubmodel.Item, publisher *jid.JID) error {
	// a republish of the same item identifier overwrites publisher, payload,
	// access model and timestamp in place, so the stored model always matches
	// the group list rewritten below
	_, err := sq.Insert("pubsub_items").
		Columns("node_id", "item", "publisher", "payload", "access_model", "created_at").
		Values(nodeID, item.ID, publisher.String(), item.Payload, item.AccessModel, nowExpr).
		Suffix("ON DUPLICATE KEY UPDATE publisher = ?, payload = ?, access_model = ?, created_at = NOW()", publisher.String(), item.Payload, item.AccessModel).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return err
	}
	var itemID int64

	err = sq.Select("item_id").
		From("pubsub_items").
		Where(sq.And{sq.Eq{"node_id": nodeID}, sq.Eq{"item": item.ID}}).
		RunWith(tx).QueryRowContext(ctx).Scan(&itemID)
	if err != nil {
		return err
	}
	_, err = sq.Delete("pubsub_item_groups_authorized").
		Where(sq.Eq{"item_id": itemID}).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return err
	}
	if item.AccessModel != pubsubmodel.Roster {
		return nil
	}
	for _, group := range item.Groups {
		_, err = sq.Insert("pubsub_item_groups_authorized").
			Columns("item_id", "groupname").
			Values(itemID, group).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteItems removes the given item identifiers, returning the subset actually deleted.
func (i *mySQLItems) DeleteItems(ctx context.Context, node string, ids []string) ([]string, error) {
	var deleted []string

	err := i.inTransaction(ctx, func(tx *sql.Tx) error {
		nodeID, err := i.fetchNodeID(ctx, tx, node)
		if err != nil {
			return err
		}
		for _, id := range ids {
			res, err := sq.Delete("pubsub_items").
				Where(sq.And{sq.Eq{"node_id": nodeID}, sq.Eq{"item": id}}).
				RunWith(tx).ExecContext(ctx)
			if err != nil {
				return err
			}
			rows, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if rows > 0 {
				deleted = append(deleted, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// FetchItems returns node items ordered by most recent publish first.
func (i *mySQLItems) FetchItems(ctx context.Context, node string, groups []string, unrestricted bool, maxItems int) ([]pubsubmodel.Item, error) {
	nodeID, err := i.fetchNodeID(ctx, i.db, node)
	if err != nil {
		return nil, err
	}
	if unrestricted {
		return i.fetchAllItems(ctx, nodeID, nil, maxItems)
	}
	return i.fetchAuthorizedItems(ctx, nodeID, groups, nil, maxItems)
}

// FetchItemsWithIDs behaves like FetchItems restricted to a list of item identifiers.
func (i *mySQLItems) FetchItemsWithIDs(ctx context.Context, node string, groups []string, unrestricted bool, ids []string) ([]pubsubmodel.Item, error) {
	nodeID, err := i.fetchNodeID(ctx, i.db, node)
	if err != nil {
		return nil, err
	}
	if unrestricted {
		return i.fetchAllItems(ctx, nodeID, ids, 0)
	}
	return i.fetchAuthorizedItems(ctx, nodeID, groups, ids, 0)
}

// PurgeItems deletes all items of a node.
func (i *mySQLItems) PurgeItems(ctx context.Context, node string) error {
	return i.inTransaction(ctx, func(tx *sql.Tx) error {
		nodeID, err := i.fetchNodeID(ctx, tx, node)
		if err != nil {
			return err
		}
		_, err = sq.Delete("pubsub_items").
			Where(sq.Eq{"node_id": nodeID}).
			RunWith(tx).ExecContext(ctx)
		return err
	})
}

// FilterItemsWithPublisher returns the subset of ids whose stored publisher bare JID matches requestor.
func (i *mySQLItems) FilterItemsWithPublisher(ctx context.Context, node string, ids []string, requestor *jid.JID) ([]string, error) {
	nodeID, err := i.fetchNodeID(ctx, i.db, node)
	if err != nil {
		return nil, err
	}
	var filtered []string
	for _, id := range ids {
		var item string

		err := sq.Select("item").
			From("pubsub_items").
			Where(sq.And{
				sq.Eq{"node_id": nodeID},
				sq.Eq{"item": id},
				sq.Expr("publisher LIKE ?", requestor.ToBareJID().String()+"/%"),
			}).
			RunWith(i.db).QueryRowContext(ctx).Scan(&item)
		switch err {
		case nil:
			filtered = append(filtered, item)
		case sql.ErrNoRows:
			continue
		default:
			return nil, err
		}
	}
	return filtered, nil
}

// fetchAllItems returns every item of a node regardless of its access model,
// attaching the authorized group list to roster restricted items.
func (i *mySQLItems) fetchAllItems(ctx context.Context, nodeID int64, ids []string, maxItems int) ([]pubsubmodel.Item, error) {
	q := sq.Select("item_id", "item", "publisher", "payload", "access_model", "created_at").
		From("pubsub_items").
		Where(sq.Eq{"node_id": nodeID}).
		OrderBy("created_at DESC")
	if len(ids) > 0 {
		q = q.Where(sq.Eq{"item": ids})
	}
	if maxItems > 0 {
		q = q.Limit(uint64(maxItems))
	}
	rows, err := q.RunWith(i.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	items, itemIDs, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	for idx := range items {
		if items[idx].AccessModel != pubsubmodel.Roster {
			continue
		}
		groups, err := i.fetchItemGroups(ctx, itemIDs[idx])
		if err != nil {
			return nil, err
		}
		items[idx].Groups = groups
	}
	return items, nil
}

// fetchAuthorizedItems returns items readable under the caller's roster groups:
// items with an 'open' access model plus roster restricted items whose
// authorized groups intersect the given set.
func (i *mySQLItems) fetchAuthorizedItems(ctx context.Context, nodeID int64, groups []string, ids []string, maxItems int) ([]pubsubmodel.Item, error) {
	accessPred := sq.Or{sq.Eq{"access_model": pubsubmodel.Open}}
	if len(groups) > 0 {
		accessPred = append(accessPred, sq.And{
			sq.Eq{"access_model": pubsubmodel.Roster},
			sq.Eq{"groupname": groups},
		})
	}
	q := sq.Select("item_id", "item", "publisher", "payload", "access_model", "created_at").
		Distinct().
		From("pubsub_items").
		LeftJoin("pubsub_item_groups_authorized USING (item_id)").
		Where(sq.Eq{"node_id": nodeID}).
		Where(accessPred).
		OrderBy("created_at DESC")
	if len(ids) > 0 {
		q = q.Where(sq.Eq{"item": ids})
	}
	if maxItems > 0 {
		q = q.Limit(uint64(maxItems))
	}
	rows, err := q.RunWith(i.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	items, _, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (i *mySQLItems) fetchItemGroups(ctx context.Context, itemID int64) ([]string, error) {
	rows, err := sq.Select("groupname").
		From("pubsub_item_groups_authorized").
		Where(sq.Eq{"item_id": itemID}).
		RunWith(i.db).QueryContext(ctx)
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

func scanItems(rows *sql.Rows) ([]pubsubmodel.Item, []int64, error) {
	defer func() { _ = rows.Close() }()

	var items []pubsubmodel.Item
	var itemIDs []int64
	for rows.Next() {
		var itemID int64
		var item pubsubmodel.Item
		if err := rows.Scan(&itemID, &item.ID, &item.Publisher, &item.Payload, &item.AccessModel, &item.CreatedAt); err != nil {
			return nil, nil, err
		}
		items = append(items, item)
		itemIDs = append(itemIDs, itemID)
	}
	return items, itemIDs, nil
}
