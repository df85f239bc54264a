// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
	"regexp"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

var (
	schemeRe = regexp.MustCompile(`^\w{1,20}://`)
	ipv4Re   = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
)

// Normalizer reduces hostnames to their registrable domain using
// two-level and three-level public suffix override lists.
type Normalizer struct {
	twoLevel     map[string]struct{}
	threeLevel   map[string]struct{}
	publicSuffix bool
}

// NewNormalizer creates a [Normalizer] from the given override lists.
// Entries are matched case-insensitively.
func NewNormalizer(twoLevel, threeLevel []string) *Normalizer {
	return &Normalizer{
		twoLevel:   toSet(twoLevel),
		threeLevel: toSet(threeLevel),
	}
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		s = normalizeDomain(s)
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// Normalize converts a hostname or URL to its registrable domain,
// e.g. "www.example.org" => "example.org" and
// "https://user@science.somewhere.co.uk:8080/x" => "somewhere.co.uk"
// when "co.uk" is a two-level override.
func (n *Normalizer) Normalize(host string) string {
	host = stripHost(host)
	if host == "" {
		return ""
	}

	if n.publicSuffix {
		if dom, err := publicsuffix.Domain(host); err == nil {
			return dom
		}
	}

	labels := strings.Split(host, ".")
	dom := lastLabels(labels, 2)
	if _, ok := n.twoLevel[dom]; ok {
		dom = lastLabels(labels, 3)
	}
	// Checked against the already extended result.
	if _, ok := n.threeLevel[dom]; ok {
		dom = lastLabels(labels, 4)
	}
	return dom
}

// stripHost removes the scheme, userinfo, path, query and port from s.
func stripHost(s string) string {
	s = normalizeDomain(s)
	s = schemeRe.ReplaceAllString(s, "")

	authority := s
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		authority = s[:i]
	}
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.IndexAny(s, "/?#:"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, ".")
}

func lastLabels(labels []string, n int) string {
	if n > len(labels) {
		n = len(labels)
	}
	return strings.Join(labels[len(labels)-n:], ".")
}

// ClassifyItem reports whether item is an IPv4 address, an IPv6 address
// or a domain.
func ClassifyItem(item string) ItemKind {
	item = strings.TrimSpace(item)
	if ipv4Re.MatchString(item) {
		return KindIPv4
	}
	if strings.Contains(item, ":") {
		if addr, err := netip.ParseAddr(item); err == nil && addr.Is6() {
			return KindIPv6
		}
	}
	return KindDomain
}

// IsValidDomain reports whether domain is a syntactically valid domain name.
//
// A valid domain must have at least two labels separated by dots,
// each label must be 1-63 characters long, contain only ASCII
// letters, digits, hyphens or underscores, and must not start or end
// with a hyphen. The TLD (last label) must contain only letters,
// unless it is a Punycode label ("xn--").
//
// A single trailing dot (FQDN form) is accepted.
func IsValidDomain(domain string) bool {
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" || len(domain) > 253 {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}

	for i, label := range labels {
		if len(label) < 1 || len(label) > 63 {
			return false
		}

		// Labels must not start or end with a hyphen.
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}

		if i == len(labels)-1 {
			if !isValidTLD(label) {
				return false
			}
			continue
		}

		for _, c := range label {
			switch {
			case c >= 'a' && c <= 'z':
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '-' || c == '_':
			default:
				return false
			}
		}
	}

	return true
}

func isValidTLD(label string) bool {
	if len(label) < 2 {
		return false
	}
	lower := strings.ToLower(label)
	if rest, ok := strings.CutPrefix(lower, "xn--"); ok {
		if rest == "" {
			return false
		}
		for _, c := range rest {
			switch {
			case c >= 'a' && c <= 'z':
			case c >= '0' && c <= '9':
			case c == '-':
			default:
				return false
			}
		}
		return true
	}
	for _, c := range lower {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// normalizeDomain lowercases and trims whitespace from a domain name.
func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// LoadTLDList reads a public suffix override list with one suffix per
// line. Blank lines and lines starting with "#" are skipped.
func LoadTLDList(r io.Reader) ([]string, error) {
	var list []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return list, nil
}
