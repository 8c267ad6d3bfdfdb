/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package serializer

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/require"
)

type testEntity struct {
	Name string
}

func (e *testEntity) ToBytes(buf *bytes.Buffer) error {
	return gob.NewEncoder(buf).Encode(&e.Name)
}

func (e *testEntity) FromBytes(buf *bytes.Buffer) error {
	return gob.NewDecoder(buf).Decode(&e.Name)
}

func TestSerialize(t *testing.T) {
	e1 := testEntity{Name: "princely_musings"}

	b, err := Serialize(&e1)
	require.Nil(t, err)
	require.True(t, len(b) > 0)

	var e2 testEntity
	require.Nil(t, Deserialize(b, &e2))
	require.Equal(t, e1, e2)
}

func TestSerializeSlice(t *testing.T) {
	v1 := []testEntity{{Name: "princely_musings"}, {Name: "weather/berlin"}}

	b, err := SerializeSlice(&v1)
	require.Nil(t, err)
	require.True(t, len(b) > 0)

	var v2 []testEntity
	require.Nil(t, DeserializeSlice(b, &v2))
	require.Equal(t, v1, v2)
}
