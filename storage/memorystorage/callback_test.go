/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package memorystorage

import (
	"context"
	"testing"

	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageCallbacks(t *testing.T) {
	service, _ := jid.NewWithString("pubsub.idavoll.im", true)

	c := newContainer(t)

	_, err := c.Callbacks().FetchCallbacks(context.Background(), service, "princely_musings")
	require.Equal(t, repository.ErrNoCallbacks, err)

	require.Nil(t, c.Callbacks().UpsertCallback(context.Background(), service, "princely_musings", "https://idavoll.im/callback"))
	require.Nil(t, c.Callbacks().UpsertCallback(context.Background(), service, "princely_musings", "https://idavoll.im/callback2"))

	// registering the same URI twice is a no-op
	require.Nil(t, c.Callbacks().UpsertCallback(context.Background(), service, "princely_musings", "https://idavoll.im/callback"))

	uris, err := c.Callbacks().FetchCallbacks(context.Background(), service, "princely_musings")
	require.Nil(t, err)
	require.Len(t, uris, 2)

	has, err := c.Callbacks().HasCallbacks(context.Background(), service, "princely_musings")
	require.Nil(t, err)
	require.True(t, has)

	last, err := c.Callbacks().DeleteCallback(context.Background(), service, "princely_musings", "https://idavoll.im/callback")
	require.Nil(t, err)
	require.False(t, last)

	last, err = c.Callbacks().DeleteCallback(context.Background(), service, "princely_musings", "https://idavoll.im/callback2")
	require.Nil(t, err)
	require.True(t, last)

	_, err = c.Callbacks().DeleteCallback(context.Background(), service, "princely_musings", "https://idavoll.im/callback2")
	require.Equal(t, repository.ErrNotSubscribed, err)

	has, err = c.Callbacks().HasCallbacks(context.Background(), service, "princely_musings")
	require.Nil(t, err)
	require.False(t, has)
}
