/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goxep/idavoll/log"
	pubsubmodel "github.com/goxep/idavoll/model/pubsub"
	"github.com/goxep/idavoll/storage/repository"
	"github.com/goxep/idavoll/xmpp/jid"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier delivers published item payloads to the callback URIs
// registered for a (service, node) pair.
type Notifier struct {
	callbacks repository.Callbacks
	cb        *gobreaker.CircuitBreaker
	client    httpClient
}

// New returns a gateway notifier backed by a callback repository.
func New(callbacks repository.Callbacks) *Notifier {
	return &Notifier{
		callbacks: callbacks,
		cb:        gobreaker.NewCircuitBreaker(gobreaker.Settings{}),
		client:    &http.Client{},
	}
}

// NotifyPublish posts every item payload to each registered callback URI.
// Having no callback registered is not an error. A callback answering
// 410 Gone is unregistered.
func (n *Notifier) NotifyPublish(ctx context.Context, service *jid.JID, node string, items []pubsubmodel.Item) error {
	uris, err := n.callbacks.FetchCallbacks(ctx, service, node)
	switch err {
	case nil:
		break
	case repository.ErrNoCallbacks:
		return nil
	default:
		return err
	}
	for _, uri := range uris {
		for _, item := range items {
			gone, err := n.post(ctx, uri, item.Payload)
			if err != nil {
				log.Warnf("gateway: callback %s delivery failed: %v", uri, err)
				continue
			}
			if !gone {
				continue
			}
			if _, err := n.callbacks.DeleteCallback(ctx, service, node, uri); err != nil && err != repository.ErrNotSubscribed {
				return err
			}
			break
		}
	}
	return nil
}

// NotifyDelete tells each registered callback URI that a node went away,
// unregistering every callback for it afterwards.
func (n *Notifier) NotifyDelete(ctx context.Context, service *jid.JID, node string) error {
	uris, err := n.callbacks.FetchCallbacks(ctx, service, node)
	switch err {
	case nil:
		break
	case repository.ErrNoCallbacks:
		return nil
	default:
		return err
	}
	for _, uri := range uris {
		if _, err := n.post(ctx, uri, deletePayload(node)); err != nil {
			log.Warnf("gateway: callback %s delivery failed: %v", uri, err)
		}
		if _, err := n.callbacks.DeleteCallback(ctx, service, node, uri); err != nil && err != repository.ErrNotSubscribed {
			return err
		}
	}
	return nil
}

func (n *Notifier) post(ctx context.Context, uri string, payload string) (gone bool, err error) {
	req, err := http.NewRequest(http.MethodPost, uri, strings.NewReader(payload))
	if err != nil {
		return false, errors.Wrapf(err, "gateway: malformed callback URI %s", uri)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/xml")

	_, err = n.cb.Execute(func() (interface{}, error) {
		resp, err := n.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		switch resp.StatusCode {
		case http.StatusOK:
			return nil, nil
		case http.StatusGone:
			gone = true
			return nil, nil
		default:
			return nil, fmt.Errorf("response status code: %d", resp.StatusCode)
		}
	})
	if err != nil {
		return false, errors.Wrapf(err, "gateway: callback %s", uri)
	}
	return gone, nil
}

func deletePayload(node string) string {
	return fmt.Sprintf("<delete node=%q/>", node)
}
