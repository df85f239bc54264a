// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

// startTestDNSServer starts a local DNS server that responds with configurable answers.
// It returns the server as a [Nameserver] and a cleanup function.
func startTestDNSServer(t *testing.T, handler dns.HandlerFunc) (Nameserver, func()) {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err, "failed to listen")

	server := &dns.Server{
		PacketConn: pc,
		Handler:    handler,
	}

	started := make(chan struct{})
	go func() {
		server.NotifyStartedFunc = func() { close(started) }
		if err := server.ActivateAndServe(); err != nil {
			// Server shutdown is expected after started.
			select {
			case <-started:
			default:
				t.Logf("DNS server error: %v", err)
			}
		}
	}()

	<-started
	ns, err := ParseNameserver(pc.LocalAddr().String())
	require.NoError(t, err)

	return ns, func() {
		_ = server.Shutdown()
	}
}

// fakeBL is a recursive resolver stand-in that answers A queries for
// listed names and NXDOMAIN for everything else. It records every
// question it receives.
type fakeBL struct {
	mu      sync.Mutex
	listed  map[string][]string
	delay   map[string]time.Duration
	silent  map[string]bool
	queries []string
}

func newFakeBL() *fakeBL {
	return &fakeBL{
		listed: make(map[string][]string),
		delay:  make(map[string]time.Duration),
		silent: make(map[string]bool),
	}
}

// list makes name (without root dot) answer with addrs.
func (f *fakeBL) list(name string, addrs ...string) *fakeBL {
	f.mu.Lock()
	f.listed[dns.Fqdn(name)] = addrs
	f.mu.Unlock()
	return f
}

// slow delays answers for names under zone.
func (f *fakeBL) slow(zone string, d time.Duration) *fakeBL {
	f.mu.Lock()
	f.delay[zone] = d
	f.mu.Unlock()
	return f
}

// mute drops queries for names under zone without answering.
func (f *fakeBL) mute(zone string) *fakeBL {
	f.mu.Lock()
	f.silent[zone] = true
	f.mu.Unlock()
	return f
}

func (f *fakeBL) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeBL) receivedFor(zone string) int {
	n := 0
	for _, q := range f.received() {
		if strings.HasSuffix(q, "."+zone+".") {
			n++
		}
	}
	return n
}

func (f *fakeBL) handler() dns.HandlerFunc {
	return func(w dns.ResponseWriter, r *dns.Msg) {
		name := r.Question[0].Name

		f.mu.Lock()
		f.queries = append(f.queries, name)
		addrs := f.listed[name]
		var delay time.Duration
		silent := false
		for zone, d := range f.delay {
			if strings.HasSuffix(name, "."+zone+".") {
				delay = d
			}
		}
		for zone := range f.silent {
			if strings.HasSuffix(name, "."+zone+".") {
				silent = true
			}
		}
		f.mu.Unlock()

		if silent {
			return
		}
		if delay > 0 {
			time.Sleep(delay)
		}

		m := new(dns.Msg)
		m.SetReply(r)
		if len(addrs) == 0 {
			m.Rcode = dns.RcodeNameError
		}
		for _, addr := range addrs {
			m.Answer = append(m.Answer, &dns.A{
				Hdr: dns.RR_Header{
					Name:   name,
					Rrtype: dns.TypeA,
					Class:  dns.ClassINET,
					Ttl:    60,
				},
				A: net.ParseIP(addr),
			})
		}
		_ = w.WriteMsg(m)
	}
}

// start runs f on a local server.
func (f *fakeBL) start(t *testing.T) (Nameserver, func()) {
	t.Helper()
	return startTestDNSServer(t, f.handler())
}
