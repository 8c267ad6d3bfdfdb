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
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestPgSQLStorageCreateNode(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)

	node := pubsubmodel.Node{
		Name:    "princely_musings",
		Type:    pubsubmodel.Leaf,
		Options: pubsubmodel.DefaultOptions(pubsubmodel.Leaf),
	}

	s, mock := newNodesMock()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pubsub_nodes (.+) VALUES (.+)").
		WithArgs("princely_musings", pubsubmodel.Leaf, true, true, pubsubmodel.OnSub, pubsubmodel.Open, pubsubmodel.Publishers).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT node_id FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(sqlmock.NewRows([]string{"node_id"}).AddRow(1))

	mock.ExpectExec("INSERT INTO pubsub_entities (.+) ON CONFLICT (.+) DO NOTHING").
		WithArgs("alice@idavoll.im").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("INSERT INTO pubsub_affiliations (.+)").
		WithArgs(int64(1), "alice@idavoll.im", pubsubmodel.Owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.CreateNode(context.Background(), &node, owner)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)

	// duplicate node name
	s, mock = newNodesMock()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pubsub_nodes (.+) VALUES (.+)").
		WithArgs("princely_musings", pubsubmodel.Leaf, true, true, pubsubmodel.OnSub, pubsubmodel.Open, pubsubmodel.Publishers).
		WillReturnError(&pq.Error{Code: uniqueViolationCode})
	mock.ExpectRollback()

	err = s.CreateNode(context.Background(), &node, owner)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Equal(t, repository.ErrNodeExists, err)
}

func TestPgSQLStorageCreateNodeRosterGroups(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)

	opts := pubsubmodel.DefaultOptions(pubsubmodel.Leaf)
	opts.AccessModel = pubsubmodel.Roster
	opts.RosterGroupsAllowed = []string{"friends", "family"}

	node := pubsubmodel.Node{Name: "princely_musings", Type: pubsubmodel.Leaf, Options: opts}

	s, mock := newNodesMock()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pubsub_nodes (.+) VALUES (.+)").
		WithArgs("princely_musings", pubsubmodel.Leaf, true, true, pubsubmodel.OnSub, pubsubmodel.Roster, pubsubmodel.Publishers).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT node_id FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(sqlmock.NewRows([]string{"node_id"}).AddRow(1))

	mock.ExpectExec("INSERT INTO pubsub_entities (.+) ON CONFLICT (.+) DO NOTHING").
		WithArgs("alice@idavoll.im").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("INSERT INTO pubsub_affiliations (.+)").
		WithArgs(int64(1), "alice@idavoll.im", pubsubmodel.Owner).
		WillReturnResult(sqlmock.NewResult(0, 1))

	for _, group := range opts.RosterGroupsAllowed {
		mock.ExpectExec("INSERT INTO pubsub_node_groups_authorized (.+)").
			WithArgs(int64(1), group).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	err := s.CreateNode(context.Background(), &node, owner)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)
}

func TestPgSQLStorageCreateNodeNoCollections(t *testing.T) {
	owner, _ := jid.New("alice", "idavoll.im", "balcony", true)

	node := pubsubmodel.Node{
		Name:    "blogs",
		Type:    pubsubmodel.Collection,
		Options: pubsubmodel.DefaultOptions(pubsubmodel.Collection),
	}
	s, mock := newNodesMock()

	err := s.CreateNode(context.Background(), &node, owner)

	require.Nil(t, mock.ExpectationsWereMet())
	require.Equal(t, repository.ErrNoCollections, err)
}

func TestPgSQLStorageFetchNode(t *testing.T) {
	var cols = []string{"node_type", "persist_items", "deliver_payloads", "send_last_published_item", "access_model", "publish_model"}

	s, mock := newNodesMock()
	mock.ExpectQuery("SELECT (.+) FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("leaf", true, true, "on_sub", "presence", "publishers"))

	node, err := s.FetchNode(context.Background(), "princely_musings")

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)
	require.NotNil(t, node)
	require.Equal(t, pubsubmodel.Leaf, node.Type)
	require.Equal(t, pubsubmodel.Presence, node.Options.AccessModel)
	require.Equal(t, pubsubmodel.OnSub, node.Options.SendLastPublishedItem)

	// node absent
	s, mock = newNodesMock()
	mock.ExpectQuery("SELECT (.+) FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(sqlmock.NewRows(cols))

	node, err = s.FetchNode(context.Background(), "princely_musings")

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, node)
	require.Equal(t, repository.ErrNodeNotFound, err)

	// error case
	s, mock = newNodesMock()
	mock.ExpectQuery("SELECT (.+) FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnError(errGeneric)

	_, err = s.FetchNode(context.Background(), "princely_musings")

	require.Nil(t, mock.ExpectationsWereMet())
	require.Equal(t, errGeneric, err)
}

func TestPgSQLStorageFetchNodeIdentifiers(t *testing.T) {
	s, mock := newNodesMock()
	rows := sqlmock.NewRows([]string{"node"})
	rows.AddRow("princely_musings")
	rows.AddRow("weather/berlin")

	mock.ExpectQuery("SELECT node FROM pubsub_nodes").
		WillReturnRows(rows)

	identifiers, err := s.FetchNodeIdentifiers(context.Background())

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)
	require.Equal(t, []string{"princely_musings", "weather/berlin"}, identifiers)
}

func TestPgSQLStorageDeleteNode(t *testing.T) {
	s, mock := newNodesMock()
	mock.ExpectExec("DELETE FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.DeleteNode(context.Background(), "princely_musings")

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)

	// node absent
	s, mock = newNodesMock()
	mock.ExpectExec("DELETE FROM pubsub_nodes WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.DeleteNode(context.Background(), "princely_musings")

	require.Nil(t, mock.ExpectationsWereMet())
	require.Equal(t, repository.ErrNodeNotFound, err)
}

func TestPgSQLStorageFetchNodeGroups(t *testing.T) {
	s, mock := newNodesMock()
	rows := sqlmock.NewRows([]string{"groupname"})
	rows.AddRow("friends")
	rows.AddRow("family")

	mock.ExpectQuery("SELECT groupname FROM pubsub_node_groups_authorized JOIN pubsub_nodes USING \\(node_id\\) WHERE (.+)").
		WithArgs("princely_musings").
		WillReturnRows(rows)

	groups, err := s.FetchNodeGroups(context.Background(), "princely_musings")

	require.Nil(t, mock.ExpectationsWereMet())
	require.Nil(t, err)
	require.Equal(t, []string{"friends", "family"}, groups)
}
