// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"fmt"
	"strconv"
	"strings"
)

// Decoder interprets the address literal returned by a blacklist.
// Decoders must be pure functions; malformed input should yield a
// descriptive string rather than a panic.
type Decoder func(address string) string

// invalidResponse is returned by the built-in decoders for answers they
// cannot interpret.
const invalidResponse = "invalid response"

// builtinDecoders are registered on every new [Client].
var builtinDecoders = map[string]Decoder{
	"phpot": DecodeProjectHoneypot,
}

// honeypotSearchEngines is indexed by the third octet of a Project Honey
// Pot search engine answer.
var honeypotSearchEngines = []string{
	"undocumented",
	"AltaVista",
	"Ask",
	"Baidu",
	"Excite",
	"Google",
	"Looksmart",
	"Lycos",
	"MSN",
	"Yahoo",
	"Cuil",
	"InfoSeek",
	"Miscellaneous",
}

// Project Honey Pot visitor type flags.
const (
	honeypotSuspicious     = 0x1
	honeypotHarvester      = 0x2
	honeypotCommentSpammer = 0x4
	honeypotReserved       = 0xf8
)

// DecodeProjectHoneypot decodes an http:BL answer from Project Honey Pot.
//
//	127.0.0.0  => "type=search engine,engine=undocumented"
//	127.1.1.3  => "days=1,score=1,type=suspicious,harvester"
//	10.0.0.1   => "invalid response"
func DecodeProjectHoneypot(address string) string {
	octets := strings.Split(address, ".")
	if len(octets) != 4 || octets[0] != "127" {
		return invalidResponse
	}

	if octets[3] == "0" {
		idx, err := strconv.Atoi(octets[2])
		if err != nil || idx < 0 || idx >= len(honeypotSearchEngines) {
			return "type=search engine,engine=unknown"
		}
		return "type=search engine,engine=" + honeypotSearchEngines[idx]
	}

	flags, err := strconv.Atoi(octets[3])
	if err != nil {
		return invalidResponse
	}
	var types []string
	if flags&honeypotSuspicious != 0 {
		types = append(types, "suspicious")
	}
	if flags&honeypotHarvester != 0 {
		types = append(types, "harvester")
	}
	if flags&honeypotCommentSpammer != 0 {
		types = append(types, "comment spammer")
	}
	if flags&honeypotReserved != 0 {
		types = append(types, "reserved")
	}
	return fmt.Sprintf("days=%s,score=%s,type=%s", octets[1], octets[2], strings.Join(types, ","))
}

// meaning resolves the human-readable meaning of address for bl,
// preferring the decoder, then the code table, then the raw address.
func (c *Client) meaning(bl *blacklist, address string) (m string) {
	if bl.decode == nil {
		return bl.code(address)
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("blacklist", bl.Name).
				WithError(fmt.Errorf("%w: decoder %q: %v", ErrInternalPanic, bl.Decoder, r)).
				Warn("decoder panicked, using code table")
			m = bl.code(address)
		}
	}()
	return bl.decode(address)
}
