/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pgsql

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
)

type pgSQLCallbacks struct {
	*pgSQLStorage
}

func newCallbacks(db *sql.DB) *pgSQLCallbacks {
	return &pgSQLCallbacks{pgSQLStorage: newStorage(db)}
}

// UpsertCallback registers a callback URI for (service, node).
func (c *pgSQLCallbacks) UpsertCallback(ctx context.Context, service *jid.JID, node string, uri string) error {
	_, err := sq.Insert("pubsub_callbacks").
		Columns("service", "node", "uri").
		Values(service.String(), node, uri).
		Suffix("ON CONFLICT (service, node, uri) DO NOTHING").
		RunWith(c.db).ExecContext(ctx)
	return err
}

// DeleteCallback unregisters a callback URI, reporting whether it was the last
// one registered for (service, node).
func (c *pgSQLCallbacks) DeleteCallback(ctx context.Context, service *jid.JID, node string, uri string) (last bool, err error) {
	err = c.inTransaction(ctx, func(tx *sql.Tx) error {
		res, err := sq.Delete("pubsub_callbacks").
			Where(sq.And{
				sq.Eq{"service": service.String()},
				sq.Eq{"node": node},
				sq.Eq{"uri": uri},
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
		var remaining int
		err = sq.Select("COUNT(1)").
			From("pubsub_callbacks").
			Where(sq.And{sq.Eq{"service": service.String()}, sq.Eq{"node": node}}).
			RunWith(tx).QueryRowContext(ctx).Scan(&remaining)
		if err != nil {
			return err
		}
		last = remaining == 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return last, nil
}

// FetchCallbacks returns all callback URIs registered for (service, node).
func (c *pgSQLCallbacks) FetchCallbacks(ctx context.Context, service *jid.JID, node string) ([]string, error) {
	rows, err := sq.Select("uri").
		From("pubsub_callbacks").
		Where(sq.And{sq.Eq{"service": service.String()}, sq.Eq{"node": node}}).
		RunWith(c.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var uris []string
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, err
		}
		uris = append(uris, uri)
	}
	if len(uris) == 0 {
		return nil, repository.ErrNoCallbacks
	}
	return uris, nil
}

// HasCallbacks tells whether (service, node) has any callback registered.
func (c *pgSQLCallbacks) HasCallbacks(ctx context.Context, service *jid.JID, node string) (bool, error) {
	var count int

	err := sq.Select("COUNT(1)").
		From("pubsub_callbacks").
		Where(sq.And{sq.Eq{"service": service.String()}, sq.Eq{"node": node}}).
		RunWith(c.db).QueryRowContext(ctx).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
