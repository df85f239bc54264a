// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"maps"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithBlacklists replaces the bundled blacklist table.
// Passing an empty slice starts the client without blacklists;
// use [Client.AddSpec] or [Client.AddBlacklist] to add them later.
func WithBlacklists(blacklists []Blacklist) Option {
	return func(c *Client) {
		c.initial = blacklists
		c.initialSet = true
	}
}

// WithNameservers replaces the default nameservers.
// Only the first nameserver is bound unless [WithBindAll] is also set.
//
// Passing zero nameservers is a no-op.
func WithNameservers(nameservers ...Nameserver) Option {
	return func(c *Client) {
		if len(nameservers) > 0 {
			c.nameservers = append([]Nameserver(nil), nameservers...)
		}
	}
}

// WithBindAll opens one socket per configured nameserver and spreads
// queries across them in round-robin order. By default only the first
// nameserver is bound.
func WithBindAll() Option {
	return func(c *Client) {
		c.bindAll = true
	}
}

// WithTimeout sets how long to wait for the next reply before giving
// up on the remaining queries of an item. The default is 1.5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFirstOnly stops waiting for an item as soon as one reply has
// been processed.
func WithFirstOnly(firstOnly bool) Option {
	return func(c *Client) {
		c.firstOnly = firstOnly
	}
}

// WithTLDOverrides replaces the bundled two-level and three-level
// public suffix override lists used by [Client.Normalize].
func WithTLDOverrides(twoLevel, threeLevel []string) Option {
	return func(c *Client) {
		c.twoLevel = twoLevel
		c.threeLevel = threeLevel
		c.overridesSet = true
	}
}

// WithPublicSuffix makes [Client.Normalize] consult the public suffix
// list first. The override lists are used when the list has no answer.
func WithPublicSuffix() Option {
	return func(c *Client) {
		c.publicSuffix = true
	}
}

// WithDecoder registers a named [Decoder] that blacklists can reference
// through their Decoder field. Registering an existing name replaces it.
//
// Decoders are resolved when a blacklist is added, so this option must
// appear before blacklists referencing it are added.
func WithDecoder(name string, fn Decoder) Option {
	return func(c *Client) {
		if fn == nil {
			return
		}
		c.decoders[name] = fn
	}
}

// WithLogger sets the logger used by the client instead of [Log].
//
// Passing nil is a no-op.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithRegisterer registers the client's Prometheus counters on reg.
// Clients sharing a registerer share the counters.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.registerer = reg
	}
}

// SetNameservers opens sockets for the given nameservers and then closes
// the existing ones. If the new sockets cannot be opened the client keeps
// its current nameservers. Only the first nameserver is bound unless the
// client was created with [WithBindAll].
//
// Passing zero nameservers restores [DefaultNameservers].
func (c *Client) SetNameservers(nameservers ...Nameserver) error {
	if len(nameservers) == 0 {
		nameservers = DefaultNameservers()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pool, err := openPool(c.bound(nameservers))
	if err != nil {
		return err
	}
	if c.pool != nil {
		if err := c.pool.close(); err != nil {
			c.log.WithError(err).Warn("failed to close sockets")
		}
	}
	c.pool = pool
	c.nameservers = append([]Nameserver(nil), nameservers...)
	return nil
}

// SetTimeout changes the reply timeout on a running [Client].
// Non-positive durations are ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

// SetFirstOnly changes first-only mode on a running [Client].
func (c *Client) SetFirstOnly(firstOnly bool) {
	c.mu.Lock()
	c.firstOnly = firstOnly
	c.mu.Unlock()
}

// AddSpec adds a blacklist, or replaces the one with the same name in
// place. An empty qtype means [QueryIP] and a nil code table means
// {"0": "OK", "127.0.0.2": "Blacklisted"}.
//
//	err := c.AddSpec("EXAMPLE", "dnsbl.example.org", dnsbl.QueryIP, nil)
func (c *Client) AddSpec(name, zone string, qtype QueryType, codes map[string]string) error {
	if codes == nil {
		codes = maps.Clone(defaultCodes)
	}
	return c.AddBlacklist(Blacklist{
		Name:  name,
		Zone:  zone,
		Type:  qtype,
		Codes: codes,
	})
}

// AddBlacklist adds b, or replaces the blacklist with the same name in
// place. It fails with [ErrUnknownDecoder] if b references a decoder
// that is not registered.
func (c *Client) AddBlacklist(b Blacklist) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	bl, err := compile(b, c.decoders)
	if err != nil {
		return err
	}
	c.blacklists.put(bl)
	return nil
}
