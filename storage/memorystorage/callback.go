/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package memorystorage

import (
	"bytes"
	"context"
	"encoding/gob"

	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
)

// Callbacks represents an in-memory gateway callback storage.
type Callbacks struct {
	*memoryStorage
}

// NewCallbacks returns an instance of Callbacks in-memory storage.
func NewCallbacks() *Callbacks {
	return &Callbacks{memoryStorage: newStorage()}
}

// UpsertCallback registers a callback URI for (service, node).
func (m *Callbacks) UpsertCallback(_ context.Context, service *jid.JID, node string, uri string) error {
	return m.inWriteLock(func() error {
		uris, err := deserializeURIs(m.b[pubSubCallbacksKey(service.String(), node)])
		if err != nil {
			return err
		}
		for _, u := range uris {
			if u == uri {
				return nil
			}
		}
		uris = append(uris, uri)

		b, err := serializeURIs(uris)
		if err != nil {
			return err
		}
		m.b[pubSubCallbacksKey(service.String(), node)] = b
		return nil
	})
}

// DeleteCallback unregisters a callback URI, reporting whether it was the last
// one registered for (service, node).
func (m *Callbacks) DeleteCallback(_ context.Context, service *jid.JID, node string, uri string) (last bool, err error) {
	err = m.inWriteLock(func() error {
		uris, err := deserializeURIs(m.b[pubSubCallbacksKey(service.String(), node)])
		if err != nil {
			return err
		}
		var deleted bool
		for i, u := range uris {
			if u == uri {
				uris = append(uris[:i], uris[i+1:]...)
				deleted = true
				break
			}
		}
		if !deleted {
			return repository.ErrNotSubscribed
		}
		if len(uris) == 0 {
			delete(m.b, pubSubCallbacksKey(service.String(), node))
			last = true
			return nil
		}
		b, err := serializeURIs(uris)
		if err != nil {
			return err
		}
		m.b[pubSubCallbacksKey(service.String(), node)] = b
		return nil
	})
	if err != nil {
		return false, err
	}
	return last, nil
}

// FetchCallbacks returns all callback URIs registered for (service, node).
func (m *Callbacks) FetchCallbacks(_ context.Context, service *jid.JID, node string) ([]string, error) {
	var uris []string
	if err := m.inReadLock(func() error {
		var err error
		uris, err = deserializeURIs(m.b[pubSubCallbacksKey(service.String(), node)])
		return err
	}); err != nil {
		return nil, err
	}
	if len(uris) == 0 {
		return nil, repository.ErrNoCallbacks
	}
	return uris, nil
}

// HasCallbacks tells whether (service, node) has any callback registered.
func (m *Callbacks) HasCallbacks(_ context.Context, service *jid.JID, node string) (bool, error) {
	var has bool
	if err := m.inReadLock(func() error {
		has = m.b[pubSubCallbacksKey(service.String(), node)] != nil
		return nil
	}); err != nil {
		return false, err
	}
	return has, nil
}

func serializeURIs(uris []string) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(buf).Encode(&uris); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeURIs(b []byte) ([]string, error) {
	if b == nil {
		return nil, nil
	}
	var uris []string
	if err := gob.NewDecoder(bytes.NewBuffer(b)).Decode(&uris); err != nil {
		return nil, err
	}
	return uris, nil
}
