/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pgsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goxep/idavoll/log"
	"github.com/goxep/idavoll/storage/repository"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pkg/errors"
)

// pingInterval defines how often to check the connection
var pingInterval = 15 * time.Second

// pingTimeout defines how long to wait for pong from server
var pingTimeout = 10 * time.Second

type pgSQLContainer struct {
	nodes         *pgSQLNodes
	affiliations  *pgSQLAffiliations
	subscriptions *pgSQLSubscriptions
	items         *pgSQLItems
	callbacks     *pgSQLCallbacks

	h          *sql.DB
	cancelPing context.CancelFunc
	doneCh     chan chan bool
}

// New initializes PostgreSQL storage and returns an associated repository container.
func New(cfg *Config) (repository.Container, error) {
	var err error

	c := &pgSQLContainer{doneCh: make(chan chan bool, 1)}

	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s", cfg.User, cfg.Password, cfg.Host, cfg.Database, cfg.SSLMode)

	c.h, err = sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "pgsql: failed to open database handle")
	}
	c.h.SetMaxOpenConns(cfg.PoolSize) // set max opened connection count

	if err := c.ping(context.Background()); err != nil {
		return nil, errors.Wrapf(err, "pgsql: unreachable database at %s", cfg.Host)
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelPing = cancel
	go c.loop(ctx)

	c.nodes = newNodes(c.h)
	c.affiliations = newAffiliations(c.h)
	c.subscriptions = newSubscriptions(c.h)
	c.items = newItems(c.h)
	c.callbacks = newCallbacks(c.h)
	return c, nil
}

func (c *pgSQLContainer) Nodes() repository.Nodes                 { return c.nodes }
func (c *pgSQLContainer) Affiliations() repository.Affiliations   { return c.affiliations }
func (c *pgSQLContainer) Subscriptions() repository.Subscriptions { return c.subscriptions }
func (c *pgSQLContainer) Items() repository.Items                 { return c.items }
func (c *pgSQLContainer) Callbacks() repository.Callbacks         { return c.callbacks }

func (c *pgSQLContainer) Close(ctx context.Context) error {
	ch := make(chan bool)
	c.doneCh <- ch
	select {
	case <-ch:
		c.cancelPing()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *pgSQLContainer) IsClusterCompatible() bool { return true }

func (c *pgSQLContainer) loop(ctx context.Context) {
	tick := time.NewTicker(pingInterval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if err := c.ping(ctx); err != nil {
				log.Error(err)
			}

		case ch := <-c.doneCh:
			if err := c.h.Close(); err != nil {
				log.Error(err)
			}
			close(ch)
			return

		case <-ctx.Done():
			return
		}
	}
}

// ping sends a ping request to the server and outputs any error to log
func (c *pgSQLContainer) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithDeadline(ctx, time.Now().Add(pingTimeout))
	defer cancel()

	return c.h.PingContext(pingCtx)
}
