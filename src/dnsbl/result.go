// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"net"
	"strconv"
	"time"
)

// Result represents a single listing returned by a DNSBL for one
// lookup item.
type Result struct {
	// Blacklist is the name of the blacklist that answered.
	Blacklist string

	// Item is the queried IP or domain as recovered from the answer.
	// For blacklists with an API key the key label is kept in front.
	Item string

	// Query is the full name that was answered, without the root dot.
	Query string

	// Result is the address literal returned by the blacklist
	// (e.g., "127.0.0.2").
	Result string

	// Meaning is the human-readable interpretation of Result.
	Meaning string

	// Elapsed is the time between the start of dispatch for the item
	// and the arrival of this answer.
	Elapsed time.Duration
}

// QueryType selects which kind of lookup item a blacklist accepts.
type QueryType string

// Supported query types.
const (
	// QueryIP blacklists are queried with reversed IPv4 or IPv6 labels.
	QueryIP QueryType = "ip"

	// QueryDomain blacklists are queried with the registrable domain
	// of a hostname.
	QueryDomain QueryType = "domain"
)

// ItemKind is the classification of a raw lookup item.
type ItemKind int

// Item classifications.
const (
	KindDomain ItemKind = iota
	KindIPv4
	KindIPv6
)

func (k ItemKind) String() string {
	switch k {
	case KindIPv4:
		return "ipv4"
	case KindIPv6:
		return "ipv6"
	default:
		return "domain"
	}
}

// Accepts reports whether a blacklist of type t is queried for items of kind k.
func (t QueryType) Accepts(k ItemKind) bool {
	switch t {
	case QueryIP:
		return k == KindIPv4 || k == KindIPv6
	case QueryDomain:
		return k == KindDomain
	default:
		return false
	}
}

// Blacklist describes one DNSBL zone and how to interpret its answers.
type Blacklist struct {
	// Name uniquely identifies the blacklist.
	Name string

	// Zone is the DNS suffix the blacklist publishes under
	// (e.g., "zen.spamhaus.org").
	Zone string

	// Type selects IP or domain items. Defaults to [QueryIP].
	Type QueryType

	// APIKey, when set, is prepended as the first label of every query.
	APIKey string

	// Disabled blacklists are never queried.
	Disabled bool

	// Decoder optionally names a registered decoder used to interpret
	// answers instead of Codes (e.g., "phpot").
	Decoder string

	// Codes maps result address literals to their meaning.
	Codes map[string]string
}

// Nameserver is a recursive resolver endpoint that queries are sent to.
type Nameserver struct {
	// IP is the resolver address.
	IP string

	// Port is the UDP port. Zero means 53.
	Port int
}

// String returns the "host:port" form of the nameserver.
func (n Nameserver) String() string {
	port := n.Port
	if port == 0 {
		port = 53
	}
	return net.JoinHostPort(n.IP, strconv.Itoa(port))
}

// ParseNameserver parses "ip", "ip:port" or "[ipv6]:port" into a [Nameserver].
func ParseNameserver(s string) (Nameserver, error) {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		// No port given.
		if net.ParseIP(s) == nil {
			return Nameserver{}, err
		}
		return Nameserver{IP: s, Port: 53}, nil
	}
	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 65535 {
		return Nameserver{}, &net.AddrError{Err: "invalid port", Addr: s}
	}
	return Nameserver{IP: host, Port: p}, nil
}
