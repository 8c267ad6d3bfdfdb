/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package storage

import (
	"fmt"

	"github.com/goxep/idavoll/storage/memorystorage"
	"github.com/goxep/idavoll/storage/mysql"
	"github.com/goxep/idavoll/storage/pgsql"
	"github.com/goxep/idavoll/storage/repository"
)

// New initializes the storage sub system and returns an associated repository container.
func New(config *Config) (repository.Container, error) {
	switch config.Type {
	case PostgreSQL:
		return pgsql.New(config.PostgreSQL)
	case MySQL:
		return mysql.New(config.MySQL)
	case Memory:
		return memorystorage.New()
	default:
		return nil, fmt.Errorf("storage: unrecognized storage type: %d", config.Type)
	}
}
