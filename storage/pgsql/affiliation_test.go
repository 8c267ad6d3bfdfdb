/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pgsql

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
	"github.com/stretchr/testify/require"
)

func TestPgSQLStorageFetchAffiliations(t *testing.T) {
	entity, _ := jid.New("alice", "idavoll.im", "balcony", true)

	s, mock := newAffiliationsMock()
	rows := sqlmock.NewRows([]string{"node", "jid", "affiliation"})
	rows.AddRow("princely_musings", "alice@idavoll.im", "owner")
	rows.AddRow("weather/berlin", "alice@idavoll.im", "publisher")
	rows.AddRow("weather/madrid", "alice@idavoll.im", "admin")

	mock.ExpectQuery("SELECT node, jid, affiliation FROM pubsub_affiliations (.+) WHERE (.+)").
		WithArgs("alice@idavoll.im").
		WillReturnRows(rows)

	affiliations, err := s.FetchAffiliations(context.Background(), entity)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)
	require.Equal(t, 3, len(affiliations))
	require.Equal(t, pubsubmodel.Owner, affiliations[0].Affiliation)
	require.Equal(t, "weather/berlin", affiliations[1].Node)
	require.Equal(t, pubsubmodel.Admin, affiliations[2].Affiliation)

	// error case
	s, mock = newAffiliationsMock()
	mock.ExpectQuery("SELECT node, jid, affiliation FROM pubsub_affiliations (.+) WHERE (.+)").
		WithArgs("alice@idavoll.im").
		WillReturnError(errGeneric)

	_, err = s.FetchAffiliations(context.Background(), entity)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Equal(t, errGeneric, err)
}

func TestPgSQLStorageFetchNodeAffiliation(t *testing.T) {
	entity, _ := jid.New("alice", "idavoll.im", "balcony", true)

	s, mock := newAffiliationsMock()
	mock.ExpectQuery("SELECT node_id FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(sqlmock.NewRows([]string{"node_id"}).AddRow(1))

	mock.ExpectQuery("SELECT affiliation FROM pubsub_affiliations (.+) WHERE (.+)").
		WithArgs("princely_musings", "alice@idavoll.im").
		WillReturnRows(sqlmock.NewRows([]string{"affiliation"}).AddRow("owner"))

	affiliation, err := s.FetchNodeAffiliation(context.Background(), "princely_musings", entity)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)
	require.NotNil(t, affiliation)
	require.Equal(t, pubsubmodel.Owner, affiliation.Affiliation)
	require.Equal(t, "alice@idavoll.im", affiliation.JID)

	// entity not affiliated
	s, mock = newAffiliationsMock()
	mock.ExpectQuery("SELECT node_id FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(sqlmock.NewRows([]string{"node_id"}).AddRow(1))

	mock.ExpectQuery("SELECT affiliation FROM pubsub_affiliations (.+) WHERE (.+)").
		WithArgs("princely_musings", "alice@idavoll.im").
		WillReturnRows(sqlmock.NewRows([]string{"affiliation"}))

	affiliation, err = s.FetchNodeAffiliation(context.Background(), "princely_musings", entity)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)
	require.Nil(t, affiliation)

	// node absent
	s, mock = newAffiliationsMock()
	mock.ExpectQuery("SELECT node_id FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(sqlmock.NewRows([]string{"node_id"}))

	_, err = s.FetchNodeAffiliation(context.Background(), "princely_musings", entity)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Equal(t, repository.ErrNodeNotFound, err)
}

func TestPgSQLStorageFetchNodeAffiliations(t *testing.T) {
	s, mock := newAffiliationsMock()
	mock.ExpectQuery("SELECT node_id FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(sqlmock.NewRows([]string{"node_id"}).AddRow(1))

	rows := sqlmock.NewRows([]string{"node", "jid", "affiliation"})
	rows.AddRow("princely_musings", "alice@idavoll.im", "owner")
	rows.AddRow("princely_musings", "bob@idavoll.im", "member")

	mock.ExpectQuery("SELECT node, jid, affiliation FROM pubsub_affiliations (.+) WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(rows)

	affiliations, err := s.FetchNodeAffiliations(context.Background(), "princely_musings")

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)
	require.Equal(t, 2, len(affiliations))
	require.Equal(t, "bob@idavoll.im", affiliations[1].JID)
	require.Equal(t, pubsubmodel.Member, affiliations[1].Affiliation)
}
