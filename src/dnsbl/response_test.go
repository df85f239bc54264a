// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packReply builds a packed reply to a question for qname carrying the given answers.
func packReply(t *testing.T, qname string, answers ...dns.RR) []byte {
	t.Helper()

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(qname), dns.TypeA)
	m.Response = true
	m.Answer = answers
	buf, err := m.Pack()
	require.NoError(t, err)
	return buf
}

// decode unpacks buf and decodes its answers with c.
func decode(t *testing.T, c *Client, buf []byte) []Result {
	t.Helper()

	msg, err := unpackReply(buf)
	require.NoError(t, err)
	return c.decodeResponse(msg, time.Now())
}

func a(name, addr string) dns.RR {
	return &dns.A{
		Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
		A:   net.ParseIP(addr),
	}
}

func testBlacklists() []Blacklist {
	return []Blacklist{
		{Name: "SPAMHAUS", Zone: "zen.spamhaus.org", Type: QueryIP, Codes: map[string]string{"127.0.0.2": "SBL", "127.0.0.4": "XBL"}},
		{Name: "OFF", Zone: "off.example", Type: QueryIP, Disabled: true, Codes: map[string]string{"127.0.0.2": "Listed"}},
		{Name: "PROJECTHONEYPOT", Zone: "dnsbl.httpbl.org", Type: QueryIP, APIKey: "abcdefghijkl", Decoder: "phpot"},
		{Name: "DBL", Zone: "dbl.spamhaus.org", Type: QueryDomain, Codes: map[string]string{"127.0.1.2": "spam domain"}},
	}
}

func TestDecodeResponseReverseIP(t *testing.T) {
	c := newOfflineClient(t, testBlacklists()...)

	buf := packReply(t, "2.0.0.127.zen.spamhaus.org",
		a("2.0.0.127.zen.spamhaus.org", "127.0.0.2"),
		a("2.0.0.127.zen.spamhaus.org", "127.0.0.4"),
		a("2.0.0.127.zen.spamhaus.org", "127.0.0.9"),
	)

	results := decode(t, c, buf)
	require.Len(t, results, 3, "one result per answer record")

	assert.Equal(t, "SPAMHAUS", results[0].Blacklist)
	assert.Equal(t, "127.0.0.2", results[0].Item)
	assert.Equal(t, "2.0.0.127.zen.spamhaus.org", results[0].Query)
	assert.Equal(t, "127.0.0.2", results[0].Result)
	assert.Equal(t, "SBL", results[0].Meaning)
	assert.Equal(t, "XBL", results[1].Meaning)
	assert.Equal(t, "127.0.0.9", results[2].Meaning, "unknown codes fall back to the address")

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Elapsed, time.Duration(0))
	}
}

func TestDecodeResponseAPIKeyDecoder(t *testing.T) {
	c := newOfflineClient(t, testBlacklists()...)

	name := "abcdefghijkl.3.1.1.127.dnsbl.httpbl.org"
	results := decode(t, c, packReply(t, name, a(name, "127.1.1.3")))
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "PROJECTHONEYPOT", r.Blacklist)
	assert.Equal(t, "abcdefghijkl.3.1.1.127", r.Item, "api key label is kept")
	assert.Equal(t, name, r.Query)
	assert.Equal(t, "127.1.1.3", r.Result)
	assert.Equal(t, "days=1,score=1,type=suspicious,harvester", r.Meaning)
}

func TestDecodeResponseDomain(t *testing.T) {
	c := newOfflineClient(t, testBlacklists()...)

	name := "example.co.uk.dbl.spamhaus.org"
	results := decode(t, c, packReply(t, name, a(name, "127.0.1.2")))
	require.Len(t, results, 1)
	assert.Equal(t, "DBL", results[0].Blacklist)
	assert.Equal(t, "example.co.uk", results[0].Item)
	assert.Equal(t, "spam domain", results[0].Meaning)
}

func TestDecodeResponseIPv6(t *testing.T) {
	c := newOfflineClient(t, testBlacklists()...)

	label := "1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.8.b.d.0.1.0.0.2"
	name := label + ".zen.spamhaus.org"
	results := decode(t, c, packReply(t, name, a(name, "127.0.0.2")))
	require.Len(t, results, 1)
	assert.Equal(t, "SPAMHAUS", results[0].Blacklist)
	assert.Equal(t, label, results[0].Item)
	assert.Equal(t, "SBL", results[0].Meaning)
}

func TestDecodeResponseDropped(t *testing.T) {
	c := newOfflineClient(t, testBlacklists()...)

	t.Run("unknown zone", func(t *testing.T) {
		name := "2.0.0.127.unknown.example"
		results := decode(t, c, packReply(t, name, a(name, "127.0.0.2")))
		assert.Empty(t, results)
	})

	t.Run("disabled blacklist", func(t *testing.T) {
		name := "2.0.0.127.off.example"
		results := decode(t, c, packReply(t, name, a(name, "127.0.0.2")))
		assert.Empty(t, results)
	})

	t.Run("suffix without label boundary", func(t *testing.T) {
		name := "example.comdbl.spamhaus.org"
		results := decode(t, c, packReply(t, name, a(name, "127.0.1.2")))
		assert.Empty(t, results)
	})

	t.Run("non A answers", func(t *testing.T) {
		name := "2.0.0.127.zen.spamhaus.org"
		txt := &dns.TXT{
			Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
			Txt: []string{"listed"},
		}
		results := decode(t, c, packReply(t, name, txt))
		assert.Empty(t, results)
	})

	t.Run("negative answer", func(t *testing.T) {
		results := decode(t, c, packReply(t, "2.0.0.127.zen.spamhaus.org"))
		assert.Empty(t, results)
	})
}

func TestUnpackReplyMalformed(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := unpackReply([]byte{0x01, 0x02, 0x03})
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("no question", func(t *testing.T) {
		m := new(dns.Msg)
		m.Response = true
		m.Answer = []dns.RR{a("2.0.0.127.zen.spamhaus.org", "127.0.0.2")}
		buf, err := m.Pack()
		require.NoError(t, err)

		msg, err := unpackReply(buf)
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Nil(t, msg)
	})
}

func TestQuestionName(t *testing.T) {
	msg, err := unpackReply(packReply(t, "2.0.0.127.ZEN.Spamhaus.ORG"))
	require.NoError(t, err)
	assert.Equal(t, "2.0.0.127.zen.spamhaus.org", questionName(msg))
}

func TestDecodeResponseReverseShapedUnderZone(t *testing.T) {
	c := newOfflineClient(t, Blacklist{Name: "A", Zone: "a.test", Type: QueryIP})

	// Reverse-shaped but the remainder is not a zone: suffix matching
	// still attributes it to the enclosing zone.
	name := "2.0.0.127.x.a.test"
	results := decode(t, c, packReply(t, name, a(name, "127.0.0.2")))
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Blacklist)
	assert.Equal(t, "2.0.0.127.x", results[0].Item)
}

func TestDecodeResponseCaseInsensitiveZone(t *testing.T) {
	c := newOfflineClient(t, testBlacklists()...)

	name := "2.0.0.127.ZEN.Spamhaus.ORG"
	results := decode(t, c, packReply(t, name, a(name, "127.0.0.2")))
	require.Len(t, results, 1)
	assert.Equal(t, "SPAMHAUS", results[0].Blacklist)
}
