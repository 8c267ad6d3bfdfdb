/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package jid

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithString(t *testing.T) {
	j, err := NewWithString("alice@example.org/desktop", false)
	require.Nil(t, err)
	require.Equal(t, "alice", j.Node())
	require.Equal(t, "example.org", j.Domain())
	require.Equal(t, "desktop", j.Resource())
	require.Equal(t, "alice@example.org/desktop", j.String())
	require.True(t, j.IsFull())

	j, err = NewWithString("example.org", false)
	require.Nil(t, err)
	require.True(t, j.IsServer())

	j, err = NewWithString("bob@example.org", false)
	require.Nil(t, err)
	require.True(t, j.IsBare())
}

func TestBadJID(t *testing.T) {
	_, err := NewWithString("alice@", false)
	require.NotNil(t, err)

	longStr := make([]byte, 1074)
	for i := range longStr {
		longStr[i] = 'a'
	}
	_, err2 := New(string(longStr), "example.org", "res", false)
	require.NotNil(t, err2)

	_, err3 := New("alice", "example.org", string(longStr), false)
	require.NotNil(t, err3)

	_, err4 := NewWithString("alice@example.org/", false)
	require.NotNil(t, err4)

	_, err5 := New("o\"rtuman", "example.org", "res", false)
	require.NotNil(t, err5)
}

func TestToBareJID(t *testing.T) {
	j, _ := NewWithString("bob@example.org/phone", true)
	bare := j.ToBareJID()
	require.Equal(t, "bob@example.org", bare.String())
	require.Equal(t, "", bare.Resource())
}

func TestMatches(t *testing.T) {
	j1, _ := NewWithString("alice@example.org/desktop", true)
	j2, _ := NewWithString("alice@example.org/surface", true)

	require.True(t, j1.Matches(j2, MatchesBare))
	require.False(t, j1.Matches(j2, MatchesFull))
}

func TestJIDGob(t *testing.T) {
	j, _ := NewWithString("alice@example.org/desktop", true)

	buf := new(bytes.Buffer)
	j.ToGob(gob.NewEncoder(buf))

	var j2 JID
	require.Nil(t, j2.FromGob(gob.NewDecoder(buf)))
	require.Equal(t, j.String(), j2.String())
}
