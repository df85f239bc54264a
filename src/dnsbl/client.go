// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Default configuration values.
const (
	defaultTimeout = 1500 * time.Millisecond
)

// defaultNameservers are the public recursive resolvers used when none
// are configured. Only the first one is bound unless [WithBindAll] is set.
var defaultNameservers = []Nameserver{
	{IP: "4.2.2.2", Port: 53},
	{IP: "4.2.2.5", Port: 53},
	{IP: "8.8.4.4", Port: 53},
	{IP: "8.8.8.8", Port: 53},
	{IP: "208.67.222.222", Port: 53},
	{IP: "208.67.220.220", Port: 53},
}

// DefaultNameservers returns a copy of the fallback nameserver list.
func DefaultNameservers() []Nameserver {
	ns := make([]Nameserver, len(defaultNameservers))
	copy(ns, defaultNameservers)
	return ns
}

// Client sends DNSBL queries to a recursive resolver over UDP and turns
// the answers into [Result] values.
//
// All methods are safe for concurrent use; lookups are serialized.
type Client struct {
	mu sync.Mutex

	blacklists  *table
	decoders    map[string]Decoder
	normalizer  *Normalizer
	nameservers []Nameserver
	bindAll     bool
	pool        *socketPool
	timeout     time.Duration
	firstOnly   bool
	log         logrus.FieldLogger
	metrics     *metrics

	// Applied once by New.
	initial      []Blacklist
	initialSet   bool
	twoLevel     []string
	threeLevel   []string
	overridesSet bool
	publicSuffix bool
	registerer   prometheus.Registerer
}

// New creates a new [Client] with the bundled blacklist table, the
// bundled TLD override lists and the default nameservers. Use
// functional options to customize behavior.
//
//	// Default configuration:
//	c, err := dnsbl.New()
//
//	// Custom configuration:
//	c, err := dnsbl.New(
//	    dnsbl.WithNameservers(dnsbl.Nameserver{IP: "9.9.9.9", Port: 53}),
//	    dnsbl.WithTimeout(3 * time.Second),
//	)
//
// The returned client owns open sockets; call [Client.Close] when done.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		blacklists:  newTable(),
		decoders:    maps.Clone(builtinDecoders),
		nameservers: DefaultNameservers(),
		timeout:     defaultTimeout,
		log:         Log,
		metrics:     newMetrics(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if !c.initialSet {
		c.initial = DefaultBlacklists()
	}
	for _, b := range c.initial {
		bl, err := compile(b, c.decoders)
		if err != nil {
			return nil, err
		}
		c.blacklists.put(bl)
	}
	c.initial = nil

	if !c.overridesSet {
		c.twoLevel, c.threeLevel = DefaultTwoLevelTLDs(), DefaultThreeLevelTLDs()
	}
	c.normalizer = NewNormalizer(c.twoLevel, c.threeLevel)
	c.normalizer.publicSuffix = c.publicSuffix
	c.twoLevel, c.threeLevel = nil, nil

	if c.registerer != nil {
		if err := c.metrics.register(c.registerer); err != nil {
			return nil, fmt.Errorf("dnsbl: register metrics: %w", err)
		}
	}

	pool, err := openPool(c.bound(c.nameservers))
	if err != nil {
		return nil, err
	}
	c.pool = pool

	return c, nil
}

// bound returns the nameservers that get a socket.
func (c *Client) bound(nameservers []Nameserver) []Nameserver {
	if c.bindAll || len(nameservers) <= 1 {
		return nameservers
	}
	return nameservers[:1]
}

// Lookup queries every enabled blacklist matching each item's kind and
// returns the listings found. Items are processed in order; results are
// grouped by item and, within an item, ordered by reply arrival.
//
// Items that are not listed, and blacklists that did not answer within
// the timeout, produce no result. A canceled context stops the lookup
// and returns the results collected so far together with ctx.Err().
func (c *Client) Lookup(ctx context.Context, items ...string) ([]Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool == nil {
		return nil, ErrClosed
	}

	var results []Result
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := c.lookupItem(ctx, item)
		results = append(results, res...)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// LookupOne looks up a single item. This is a convenience wrapper
// around [Client.Lookup].
func (c *Client) LookupOne(ctx context.Context, item string) ([]Result, error) {
	return c.Lookup(ctx, item)
}

// lookupItem runs one dispatch and wait cycle.
func (c *Client) lookupItem(ctx context.Context, item string) (results []Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternalPanic, r)
		}
	}()

	if n := c.pool.drain(); n > 0 {
		c.log.WithField("count", n).Debug("discarded late replies")
	}

	start := time.Now()
	sent := c.dispatch(item, ClassifyItem(item))
	return c.collect(ctx, item, sent, start)
}

// dispatch sends one query per enabled blacklist accepting kind and
// returns how often each lowercased query name was sent. Failures are
// logged and skipped.
func (c *Client) dispatch(item string, kind ItemKind) map[string]int {
	sent := make(map[string]int)
	for _, bl := range c.blacklists.list {
		if bl.Disabled || !bl.Type.Accepts(kind) {
			continue
		}

		log := c.log.WithFields(logrus.Fields{"blacklist": bl.Name, "item": item})
		q, err := c.encodeQuery(item, kind, bl)
		if err != nil {
			c.metrics.failures.WithLabelValues(bl.Name).Inc()
			log.WithError(err).Warn("failed to encode query")
			continue
		}
		log = log.WithFields(logrus.Fields{"query": q.name, "id": q.id})
		ns, err := c.pool.send(q)
		if err != nil {
			c.metrics.failures.WithLabelValues(bl.Name).Inc()
			log.WithField("nameserver", ns).WithError(err).Warn("failed to send query")
			continue
		}

		c.metrics.queries.WithLabelValues(bl.Name).Inc()
		log.WithField("nameserver", ns).Debug("sent query")
		sent[strings.ToLower(q.name)]++
	}
	return sent
}

// Close closes the client's sockets. Lookups after Close return [ErrClosed].
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool == nil {
		return nil
	}
	err := c.pool.close()
	c.pool = nil
	return err
}

// Blacklists returns the names of the configured blacklists in order.
func (c *Client) Blacklists() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blacklists.names()
}

// Blacklist returns a copy of the named blacklist.
func (c *Client) Blacklist(name string) (Blacklist, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.blacklists.index[name]
	if !ok {
		return Blacklist{}, false
	}
	b := c.blacklists.list[i].Blacklist
	b.Codes = maps.Clone(b.Codes)
	return b, true
}

// Nameservers returns a copy of the configured nameservers.
func (c *Client) Nameservers() []Nameserver {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns := make([]Nameserver, len(c.nameservers))
	copy(ns, c.nameservers)
	return ns
}

// Normalize converts a hostname or URL to the registrable domain that
// domain blacklists are queried with.
func (c *Client) Normalize(host string) string {
	return c.normalizer.Normalize(host)
}
