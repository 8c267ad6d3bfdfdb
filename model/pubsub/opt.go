/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pubsubmodel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	nodeTypeFieldVar              = "pubsub#node_type"
	persistItemsFieldVar          = "pubsub#persist_items"
	deliverPayloadsFieldVar       = "pubsub#deliver_payloads"
	sendLastPublishedItemFieldVar = "pubsub#send_last_published_item"
	accessModelFieldVar           = "pubsub#access_model"
	publishModelFieldVar          = "pubsub#publish_model"
	rosterGroupsAllowedFieldVar   = "pubsub#roster_groups_allowed"
)

const (
	// Open represents 'open' access model.
	Open = "open"

	// Presence represents 'presence' access model.
	Presence = "presence"

	// Roster represents 'roster' access model.
	Roster = "roster"

	// Authorize represents 'authorize' access model.
	Authorize = "authorize"

	// WhiteList represents 'whitelist' access model.
	WhiteList = "whitelist"
)

const (
	// Publishers represents 'publishers' publish model.
	Publishers = "publishers"

	// Subscribers represents 'subscribers' publish model.
	Subscribers = "subscribers"

	// OpenPublish represents 'open' publish model.
	OpenPublish = "open"
)

const (
	// Never represents 'never' send last published item option.
	Never = "never"

	// OnSub represents 'on_sub' send last published item option.
	OnSub = "on_sub"

	// OnSubAndPresence represents 'on_sub_and_presence' send last published item option.
	OnSubAndPresence = "on_sub_and_presence"
)

// Options represents pubsub node configuration options.
type Options struct {
	PersistItems          bool
	DeliverPayloads       bool
	SendLastPublishedItem string
	AccessModel           string
	PublishModel          string
	RosterGroupsAllowed   []string
}

// DefaultOptions returns the default configuration for a newly created node.
func DefaultOptions(nodeType NodeType) Options {
	opt := Options{
		DeliverPayloads:       true,
		SendLastPublishedItem: OnSub,
		AccessModel:           Open,
		PublishModel:          Publishers,
	}
	if nodeType == Leaf {
		opt.PersistItems = true
	}
	return opt
}

// Validate checks that every enumerated option holds a known value.
func (opt *Options) Validate() error {
	switch opt.AccessModel {
	case Open, Presence, Roster, Authorize, WhiteList:
		break
	default:
		return fmt.Errorf("pubsubmodel: invalid access_model value: %s", opt.AccessModel)
	}
	switch opt.PublishModel {
	case Publishers, Subscribers, OpenPublish:
		break
	default:
		return fmt.Errorf("pubsubmodel: invalid publish_model value: %s", opt.PublishModel)
	}
	switch opt.SendLastPublishedItem {
	case Never, OnSub, OnSubAndPresence:
		break
	default:
		return fmt.Errorf("pubsubmodel: invalid send_last_published_item value: %s", opt.SendLastPublishedItem)
	}
	return nil
}

// NewOptionsFromMap returns a new node Options instance derived from an input map.
func NewOptionsFromMap(m map[string]string) (*Options, error) {
	opt := &Options{}

	opt.PersistItems, _ = strconv.ParseBool(m[persistItemsFieldVar])
	opt.DeliverPayloads, _ = strconv.ParseBool(m[deliverPayloadsFieldVar])
	opt.SendLastPublishedItem = m[sendLastPublishedItemFieldVar]
	opt.AccessModel = m[accessModelFieldVar]
	opt.PublishModel = m[publishModelFieldVar]

	// extract roster allowed groups
	groupsJSON := m[rosterGroupsAllowedFieldVar]
	if len(groupsJSON) > 0 {
		if err := json.NewDecoder(strings.NewReader(groupsJSON)).Decode(&opt.RosterGroupsAllowed); err != nil {
			return nil, err
		}
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return opt, nil
}

// Map returns Options map representation.
func (opt *Options) Map() (map[string]string, error) {
	b, err := json.Marshal(&opt.RosterGroupsAllowed)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	m[persistItemsFieldVar] = strconv.FormatBool(opt.PersistItems)
	m[deliverPayloadsFieldVar] = strconv.FormatBool(opt.DeliverPayloads)
	m[sendLastPublishedItemFieldVar] = opt.SendLastPublishedItem
	m[accessModelFieldVar] = opt.AccessModel
	m[publishModelFieldVar] = opt.PublishModel
	m[rosterGroupsAllowedFieldVar] = string(b)
	return m, nil
}
