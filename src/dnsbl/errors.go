// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import "errors"

// Sentinel errors for the dnsbl package.
var (
	// ErrNoNameservers is returned when no nameserver is configured
	// and no socket could be opened.
	ErrNoNameservers = errors.New("dnsbl: no nameservers configured")

	// ErrInvalidItem is returned when an IP address item cannot be
	// encoded into a reverse label.
	ErrInvalidItem = errors.New("dnsbl: invalid lookup item")

	// ErrInvalidDomain is returned when a domain item fails validation
	// after normalization.
	ErrInvalidDomain = errors.New("dnsbl: invalid domain name")

	// ErrUnknownDecoder is returned when a blacklist references a decoder
	// that is not registered on the client.
	ErrUnknownDecoder = errors.New("dnsbl: unknown decoder")

	// ErrMalformedResponse is returned when a reply datagram cannot be
	// parsed as a single-question DNS message.
	ErrMalformedResponse = errors.New("dnsbl: malformed response")

	// ErrInternalPanic is returned when an internal panic is recovered during execution.
	ErrInternalPanic = errors.New("dnsbl: internal panic recovered")

	// ErrClosed is returned when a lookup is attempted on a closed [Client].
	ErrClosed = errors.New("dnsbl: client closed")

	// ErrInvalidConfig is returned when a blacklist configuration cannot be parsed.
	ErrInvalidConfig = errors.New("dnsbl: invalid configuration")
)
