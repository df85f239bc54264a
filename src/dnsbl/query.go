// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// query is an encoded DNS question ready to be written to a socket.
type query struct {
	name string
	id   uint16
	raw  []byte
}

// queryID returns the transaction id for name: the sum of its bytes
// modulo 65536. Replies are matched by owner name, never by id.
func queryID(name string) uint16 {
	var sum uint16
	for i := 0; i < len(name); i++ {
		sum += uint16(name[i])
	}
	return sum
}

// reverseLabel converts item into the label queried under a zone.
func (c *Client) reverseLabel(item string, kind ItemKind) (string, error) {
	item = strings.TrimSpace(item)
	switch kind {
	case KindIPv4:
		arpa, err := dns.ReverseAddr(item)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidItem, item, err)
		}
		return strings.TrimSuffix(arpa, ".in-addr.arpa."), nil
	case KindIPv6:
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidItem, item, err)
		}
		return nibbleLabel(addr.WithZone("")), nil
	default:
		dom, err := idna.ToASCII(c.normalizer.Normalize(item))
		if err != nil || !IsValidDomain(dom) {
			return "", fmt.Errorf("%w: %s", ErrInvalidDomain, item)
		}
		return dom, nil
	}
}

// nibbleLabel returns the ip6.arpa form of addr without the suffix.
// IPv4-mapped addresses are kept in their 16-byte form.
func nibbleLabel(addr netip.Addr) string {
	const hex = "0123456789abcdef"
	b := addr.As16()
	var sb strings.Builder
	sb.Grow(63)
	for i := len(b) - 1; i >= 0; i-- {
		if i < len(b)-1 {
			sb.WriteByte('.')
		}
		sb.WriteByte(hex[b[i]&0x0f])
		sb.WriteByte('.')
		sb.WriteByte(hex[b[i]>>4])
	}
	return sb.String()
}

// encodeQuery builds the A query for item against bl.
func (c *Client) encodeQuery(item string, kind ItemKind, bl *blacklist) (query, error) {
	label, err := c.reverseLabel(item, kind)
	if err != nil {
		return query{}, err
	}

	name := label + "." + bl.Zone
	if bl.APIKey != "" {
		name = bl.APIKey + "." + name
	}

	msg := new(dns.Msg)
	msg.Id = queryID(name)
	msg.RecursionDesired = true
	msg.Question = []dns.Question{{
		Name:   dns.Fqdn(name),
		Qtype:  dns.TypeA,
		Qclass: dns.ClassINET,
	}}

	raw, err := msg.Pack()
	if err != nil {
		return query{}, fmt.Errorf("%w: %s: %v", ErrInvalidItem, name, err)
	}
	return query{name: name, id: msg.Id, raw: raw}, nil
}
