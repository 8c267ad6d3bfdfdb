/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package mysql

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/goxep/idavoll/storage/repository"
)

var nowExpr = sq.Expr("NOW()")

const duplicateEntryCode = 1062

// mySQLStorage represents a MySQL storage base sub system.
type mySQLStorage struct {
	db *sql.DB
}

// newStorage instantiates a MySQL base storage instance.
func newStorage(db *sql.DB) *mySQLStorage {
	return &mySQLStorage{db: db}
}

func (s *mySQLStorage) inTransaction(ctx context.Context, f func(tx *sql.Tx) error) error {
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
func (s *mySQLStorage) fetchNodeID(ctx context.Context, runner sq.BaseRunner, node string) (int64, error) {
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

func isDuplicateEntry(err error) bool {
	myErr, ok := err.(*mysql.MySQLError)
	return ok && myErr.Number == duplicateEntryCode
}
