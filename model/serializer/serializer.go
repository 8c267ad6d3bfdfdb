/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package serializer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"reflect"

	"github.com/goxep/idavoll/pool"
)

var bufPool = pool.NewBufferPool()

// Serializer represents a Gob serializable entity.
type Serializer interface {
	ToBytes(buf *bytes.Buffer) error
}

// Deserializer represents a Gob deserializable entity.
type Deserializer interface {
	FromBytes(buf *bytes.Buffer) error
}

// Serialize converts a serializable entity into its bytes representation.
func Serialize(serializer Serializer) ([]byte, error) {
	buf := bufPool.Get()
	defer bufPool.Put(buf)

	if err := serializer.ToBytes(buf); err != nil {
		return nil, err
	}
	res := make([]byte, buf.Len())
	copy(res, buf.Bytes())

	return res, nil
}

// Deserialize reads an entity from its bytes representation.
func Deserialize(b []byte, deserializer Deserializer) error {
	buf := bufPool.Get()
	defer bufPool.Put(buf)

	buf.Write(b)
	return deserializer.FromBytes(buf)
}

// SerializeSlice converts a slice of serializable entities into its bytes representation.
func SerializeSlice(slice interface{}) ([]byte, error) {
	v := reflect.ValueOf(slice).Elem()

	buf := bufPool.Get()
	defer bufPool.Put(buf)

	if err := gob.NewEncoder(buf).Encode(v.Len()); err != nil {
		return nil, err
	}
	for i := 0; i < v.Len(); i++ {
		el, ok := v.Index(i).Addr().Interface().(Serializer)
		if !ok {
			return nil, fmt.Errorf("serializer: %s elements are not serializable", v.Type().Elem().String())
		}
		if err := el.ToBytes(buf); err != nil {
			return nil, err
		}
	}
	res := make([]byte, buf.Len())
	copy(res, buf.Bytes())

	return res, nil
}

// DeserializeSlice reads a slice of entities from its bytes representation.
func DeserializeSlice(b []byte, slice interface{}) error {
	buf := bufPool.Get()
	defer bufPool.Put(buf)

	buf.Write(b)

	var ln int
	if err := gob.NewDecoder(buf).Decode(&ln); err != nil {
		return err
	}
	v := reflect.ValueOf(slice).Elem()
	for i := 0; i < ln; i++ {
		el := reflect.New(v.Type().Elem())
		deserializer, ok := el.Interface().(Deserializer)
		if !ok {
			return fmt.Errorf("serializer: %s elements are not deserializable", v.Type().Elem().String())
		}
		if err := deserializer.FromBytes(buf); err != nil {
			return err
		}
		v.Set(reflect.Append(v, el.Elem()))
	}
	return nil
}
