// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// reverseIPName matches owner names of the form o4.o3.o2.o1.<zone>.
var reverseIPName = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(.+)$`)

// unpackReply parses a reply datagram. Anything but a single-question
// DNS message is rejected with [ErrMalformedResponse].
func unpackReply(buf []byte) (*dns.Msg, error) {
	msg := new(dns.Msg)
	if err := msg.Unpack(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(msg.Question) != 1 {
		return nil, fmt.Errorf("%w: %d questions", ErrMalformedResponse, len(msg.Question))
	}
	return msg, nil
}

// questionName returns the lowercased question name of msg without the
// root dot.
func questionName(msg *dns.Msg) string {
	return strings.ToLower(strings.TrimSuffix(msg.Question[0].Name, "."))
}

// decodeResponse converts every answer of msg that belongs to a
// configured blacklist into a [Result]. Answers that match no blacklist
// are dropped.
func (c *Client) decodeResponse(msg *dns.Msg, start time.Time) []Result {
	var results []Result
	for _, rr := range msg.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		name := strings.TrimSuffix(rr.Header().Name, ".")
		address := a.A.String()

		if m := reverseIPName.FindStringSubmatch(name); m != nil {
			if bl := c.blacklists.byZone(m[5]); bl != nil {
				results = append(results, Result{
					Blacklist: bl.Name,
					Item:      m[4] + "." + m[3] + "." + m[2] + "." + m[1],
					Query:     name,
					Result:    address,
					Meaning:   bl.code(address),
					Elapsed:   time.Since(start),
				})
				continue
			}
			// Not an exact zone: fall through on purpose. IPv6 nibble
			// names and longer labels under a zone are reverse-shaped too.
		}

		bl := c.blacklists.bySuffix(name)
		if bl == nil {
			continue
		}
		results = append(results, Result{
			Blacklist: bl.Name,
			Item:      name[:len(name)-len(bl.zone)-1],
			Query:     name,
			Result:    address,
			Meaning:   c.meaning(bl, address),
			Elapsed:   time.Since(start),
		})
	}
	return results
}
