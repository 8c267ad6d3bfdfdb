/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // SQL driver
	"github.com/goxep/idavoll/log"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/pkg/errors"
)

type mySQLContainer struct {
	nodes         *mySQLNodes
	affiliations  *mySQLAffiliations
	subscriptions *mySQLSubscriptions
	items         *mySQLItems
	callbacks     *mySQLCallbacks

	h      *sql.DB
	doneCh chan chan bool
}

// New initializes MySQL storage and returns an associated repository container.
func New(cfg *Config) (repository.Container, error) {
	var err error

	c := &mySQLContainer{doneCh: make(chan chan bool, 1)}

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", cfg.User, cfg.Password, cfg.Host, cfg.Database)

	c.h, err = sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "mysql: failed to open database handle")
	}
	c.h.SetMaxOpenConns(cfg.PoolSize) // set max opened connection count

	if err := c.h.Ping(); err != nil {
		return nil, errors.Wrapf(err, "mysql: unreachable database at %s", cfg.Host)
	}
	go c.loop()

	c.nodes = newNodes(c.h)
	c.affiliations = newAffiliations(c.h)
	c.subscriptions = newSubscriptions(c.h)
	c.items = newItems(c.h)
	c.callbacks = newCallbacks(c.h)
	return c, nil
}

func (c *mySQLContainer) Nodes() repository.Nodes                 { return c.nodes }
func (c *mySQLContainer) Affiliations() repository.Affiliations   { return c.affiliations }
func (c *mySQLContainer) Subscriptions() repository.Subscriptions { return c.subscriptions }
func (c *mySQLContainer) Items() repository.Items                 { return c.items }
func (c *mySQLContainer) Callbacks() repository.Callbacks         { return c.callbacks }

func (c *mySQLContainer) Close(ctx context.Context) error {
	ch := make(chan bool)
	c.doneCh <- ch
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *mySQLContainer) IsClusterCompatible() bool { return true }

func (c *mySQLContainer) loop() {
	tc := time.NewTicker(time.Second * 15)
	defer tc.Stop()

	for {
		select {
		case <-tc.C:
			if err := c.h.Ping(); err != nil {
				log.Error(err)
			}
		case ch := <-c.doneCh:
			if err := c.h.Close(); err != nil {
				log.Error(err)
			}
			close(ch)
			return
		}
	}
}
