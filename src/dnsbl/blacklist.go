// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"fmt"
	"maps"
	"strings"
)

// defaultCodes is the code table used by [Client.AddSpec] when none is given.
var defaultCodes = map[string]string{
	"0":         "OK",
	"127.0.0.2": "Blacklisted",
}

// blacklist is a configured [Blacklist] with its decoder resolved.
type blacklist struct {
	Blacklist
	zone   string // lowercased Zone used for matching
	decode Decoder
}

func (bl *blacklist) code(address string) string {
	if m, ok := bl.Codes[address]; ok {
		return m
	}
	return address
}

// table is the ordered set of blacklists keyed by name.
type table struct {
	list  []*blacklist
	index map[string]int
}

func newTable() *table {
	return &table{index: make(map[string]int)}
}

// put adds bl or replaces the blacklist with the same name in place.
func (t *table) put(bl *blacklist) {
	if i, ok := t.index[bl.Name]; ok {
		t.list[i] = bl
		return
	}
	t.index[bl.Name] = len(t.list)
	t.list = append(t.list, bl)
}

func (t *table) names() []string {
	names := make([]string, len(t.list))
	for i, bl := range t.list {
		names[i] = bl.Name
	}
	return names
}

// byZone returns the first enabled blacklist whose zone equals zone.
func (t *table) byZone(zone string) *blacklist {
	zone = strings.ToLower(zone)
	for _, bl := range t.list {
		if !bl.Disabled && bl.zone == zone {
			return bl
		}
	}
	return nil
}

// bySuffix returns the first enabled blacklist whose zone is a label
// suffix of name.
func (t *table) bySuffix(name string) *blacklist {
	name = strings.ToLower(name)
	for _, bl := range t.list {
		if !bl.Disabled && strings.HasSuffix(name, "."+bl.zone) {
			return bl
		}
	}
	return nil
}

// compile validates b and resolves its decoder against decoders.
func compile(b Blacklist, decoders map[string]Decoder) (*blacklist, error) {
	if b.Name == "" {
		return nil, fmt.Errorf("%w: blacklist without name", ErrInvalidConfig)
	}
	b.Zone = strings.Trim(strings.TrimSpace(b.Zone), ".")
	if b.Zone == "" {
		return nil, fmt.Errorf("%w: blacklist %q has no zone", ErrInvalidConfig, b.Name)
	}
	if b.Type == "" {
		b.Type = QueryIP
	}
	if b.Type != QueryIP && b.Type != QueryDomain {
		return nil, fmt.Errorf("%w: blacklist %q has unsupported type %q", ErrInvalidConfig, b.Name, b.Type)
	}
	b.Codes = maps.Clone(b.Codes)

	bl := &blacklist{Blacklist: b, zone: strings.ToLower(b.Zone)}
	if b.Decoder != "" {
		fn, ok := decoders[b.Decoder]
		if !ok {
			return nil, fmt.Errorf("%w: %q for blacklist %q", ErrUnknownDecoder, b.Decoder, b.Name)
		}
		bl.decode = fn
	}
	return bl, nil
}
