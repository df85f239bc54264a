// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package dnsbl provides a DNS blacklist (DNSBL) lookup client.
//
// A DNSBL publishes reputation data as DNS answers under a zone. To check
// whether 192.0.2.10 is listed on "zen.spamhaus.org", a client asks for the
// A record of "10.2.0.192.zen.spamhaus.org"; an answer such as 127.0.0.2
// means the address is listed, and no answer means it is not. Domain
// blacklists are queried the same way with the registrable domain of a
// hostname, e.g. "example.co.uk.dbl.spamhaus.org".
//
// The client sends one query per enabled blacklist for every item over a
// connected UDP socket, then collects replies until all queries have been
// answered or no reply arrived within the timeout. Replies are matched to
// blacklists by their owner name, so a single datagram may yield several
// results and late or unknown answers are simply ignored.
//
// # Quick Start
//
//	c, err := dnsbl.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	results, err := c.Lookup(ctx, "127.0.0.2", "example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, r := range results {
//	    fmt.Printf("%-20s %-16s %s (%s)\n", r.Blacklist, r.Item, r.Meaning, r.Elapsed)
//	}
//
// # Configuration
//
// Use functional options to customize the client:
//
//	c, err := dnsbl.New(
//	    // Query a local resolver instead of the public defaults.
//	    dnsbl.WithNameservers(dnsbl.Nameserver{IP: "127.0.0.1", Port: 53}),
//
//	    // Wait up to 3 seconds for each reply.
//	    dnsbl.WithTimeout(3 * time.Second),
//
//	    // Use a custom blacklist table.
//	    dnsbl.WithBlacklists([]dnsbl.Blacklist{
//	        {Name: "SPAMCOP", Zone: "bl.spamcop.net", Type: dnsbl.QueryIP,
//	            Codes: map[string]string{"127.0.0.2": "Listed"}},
//	    }),
//	)
//
// Available options:
//
//   - [WithBlacklists]   - Replace the bundled blacklist table
//   - [WithNameservers]  - Replace the default public resolvers
//   - [WithBindAll]      - Open a socket per nameserver (default: first only)
//   - [WithTimeout]      - Reply timeout per wait (default: 1.5s)
//   - [WithFirstOnly]    - Stop after the first reply per item
//   - [WithTLDOverrides] - Replace the bundled two/three-level suffix lists
//   - [WithPublicSuffix] - Normalize domains with the public suffix list
//   - [WithDecoder]      - Register a custom answer decoder
//   - [WithLogger]       - Use a custom logrus logger
//   - [WithRegisterer]   - Register Prometheus counters
//
// Blacklist tables can be loaded from YAML or TOML files with
// [LoadConfigFile]; override lists with [LoadTLDFile].
//
// # Nameservers
//
// Only the first configured nameserver is bound to a socket, matching the
// behavior existing deployments depend on. Pass [WithBindAll] to open one
// socket per nameserver; queries are then spread across them in
// round-robin order.
//
// # Decoders
//
// Some blacklists encode more than a yes/no answer in the returned
// address. A blacklist with a Decoder name interprets answers with the
// registered [Decoder]. The built-in "phpot" decoder understands Project
// Honey Pot http:BL answers:
//
//	127.0.5.0  => type=search engine,engine=Google
//	127.3.42.1 => days=3,score=42,type=suspicious
//
// # Errors
//
// Sentinel errors for use with [errors.Is]:
//
//	var (
//	    ErrNoNameservers     // No nameservers configured
//	    ErrInvalidItem       // IP item could not be encoded
//	    ErrInvalidDomain     // Domain item failed validation
//	    ErrUnknownDecoder    // Blacklist references an unregistered decoder
//	    ErrMalformedResponse // Reply could not be parsed
//	    ErrInternalPanic     // An internal panic was recovered
//	    ErrClosed            // Client was closed
//	    ErrInvalidConfig     // Blacklist configuration could not be parsed
//	)
//
// Per-blacklist failures during a lookup (encoding, sending, malformed
// replies, timeouts) are logged through [Log] and never abort the lookup.
// A timeout is indistinguishable from "not listed".
package dnsbl
