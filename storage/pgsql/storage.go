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
	"github.com/lib/pq"
)

var nowExpr = sq.Expr("NOW()")

const uniqueViolationCode = "23505"

// pgSQLStorage represents a PostgreSQL storage base sub system.
type pgSQLStorage struct {
	db *sql.DB
}

// newStorage instantiates a PostgreSQL base storage instance.
func newStorage(db *sql.DB) *pgSQLStorage {
	return &pgSQLStorage{db: db}
}

func (s *pgSQLStorage) inTransaction(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, txErr := s.db.BeginTx(ctx, nil)
	if txErr != nil {
		return txErr
	}
	if err := f(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// fetchNodeID resolves a node name to its internal identifier.
func (s *pgSQLStorage) fetchNodeID(ctx context.Context, runner sq.BaseRunner, node string) (int64, error) {
	var nodeID int64

	err := sq.Select("node_id").
		From("pubsub_nodes").
		Where(sq.Eq{"node": node}).
		RunWith(runner).QueryRowContext(ctx).Scan(&nodeID)
	switch err {
	case nil:
		return nodeID, nil
	case sql.ErrNoRows:
		return 0, repository.ErrNodeNotFound
	default:
		return 0, err
	}
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolationCode
}
