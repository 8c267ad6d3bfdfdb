/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package storage

import (
	"errors"
	"fmt"

	"github.com/goxep/idavoll/storage/mysql"
	"github.com/goxep/idavoll/storage/pgsql"
)

// Type represents a storage type.
type Type int

const (
	// PostgreSQL represents a PostgreSQL storage type.
	PostgreSQL Type = iota

	// MySQL represents a MySQL storage type.
	MySQL

	// Memory represents an in-memory storage type.
	Memory
)

// Config represents the storage sub system configuration.
type Config struct {
	Type       Type
	PostgreSQL *pgsql.Config
	MySQL      *mysql.Config
}

type storageProxyType struct {
	Type       string        `yaml:"type"`
	PostgreSQL *pgsql.Config `yaml:"pgsql"`
	MySQL      *mysql.Config `yaml:"mysql"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := storageProxyType{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	switch p.Type {
	case "pgsql":
		if p.PostgreSQL == nil {
			return errors.New("storage.Config: couldn't read PostgreSQL configuration")
		}
		c.Type = PostgreSQL
		c.PostgreSQL = p.PostgreSQL

	case "mysql":
		if p.MySQL == nil {
			return errors.New("storage.Config: couldn't read MySQL configuration")
		}
		c.Type = MySQL
		c.MySQL = p.MySQL

	case "memory":
		c.Type = Memory

	case "":
		return errors.New("storage.Config: unspecified storage type")

	default:
		return fmt.Errorf("storage.Config: unrecognized storage type: %s", p.Type)
	}
	return nil
}
