// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed data
var bundled embed.FS

// Reserved keys of a blacklist entry; every other key is a result code.
const (
	keyDomain   = "domain"
	keyType     = "type"
	keyAPIKey   = "apikey"
	keyDisabled = "disabled"
	keyDecoder  = "decoder"
)

// LoadConfig parses a YAML blacklist table. Top-level keys are blacklist
// names, in the order they are queried:
//
//	SPAMHAUS:
//	  domain: zen.spamhaus.org
//	  type: ip
//	  127.0.0.2: SBL
//	PROJECTHONEYPOT:
//	  domain: dnsbl.httpbl.org
//	  type: ip
//	  apikey: abcdefghijkl
//	  decoder: phpot
//
// Keys other than domain, type, apikey, disabled and decoder map a
// result address to its meaning.
func LoadConfig(r io.Reader) ([]Blacklist, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of blacklists", ErrInvalidConfig, root.Line)
	}

	blacklists := make([]Blacklist, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		b, err := parseYAMLBlacklist(root.Content[i].Value, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		blacklists = append(blacklists, b)
	}
	return blacklists, nil
}

func parseYAMLBlacklist(name string, node *yaml.Node) (Blacklist, error) {
	if node.Kind != yaml.MappingNode {
		return Blacklist{}, fmt.Errorf("%w: line %d: blacklist %q must be a mapping", ErrInvalidConfig, node.Line, name)
	}

	b := Blacklist{Name: name, Codes: make(map[string]string)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case keyDomain:
			b.Zone = val.Value
		case keyType:
			b.Type = QueryType(strings.ToLower(val.Value))
		case keyAPIKey:
			b.APIKey = val.Value
		case keyDecoder:
			b.Decoder = val.Value
		case keyDisabled:
			if err := val.Decode(&b.Disabled); err != nil {
				return Blacklist{}, fmt.Errorf("%w: blacklist %q: %v", ErrInvalidConfig, name, err)
			}
		default:
			b.Codes[key] = val.Value
		}
	}
	if len(b.Codes) == 0 {
		b.Codes = nil
	}
	return b, nil
}

// tomlBlacklist is one table of a TOML blacklist file.
type tomlBlacklist struct {
	Domain   string            `toml:"domain"`
	Type     string            `toml:"type"`
	APIKey   string            `toml:"apikey"`
	Disabled bool              `toml:"disabled"`
	Decoder  string            `toml:"decoder"`
	Codes    map[string]string `toml:"codes"`
}

// LoadTOMLConfig parses a TOML blacklist table. Each blacklist is a
// table named after it, with result codes in a "codes" sub-table:
//
//	[SPAMHAUS]
//	domain = "zen.spamhaus.org"
//	type = "ip"
//
//	[SPAMHAUS.codes]
//	"127.0.0.2" = "SBL"
//
// Blacklists keep the order in which their tables first appear.
func LoadTOMLConfig(r io.Reader) ([]Blacklist, error) {
	var raw map[string]tomlBlacklist
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool, len(raw))
	blacklists := make([]Blacklist, 0, len(raw))
	for _, key := range md.Keys() {
		name := key[0]
		if seen[name] {
			continue
		}
		seen[name] = true

		t := raw[name]
		blacklists = append(blacklists, Blacklist{
			Name:     name,
			Zone:     t.Domain,
			Type:     QueryType(strings.ToLower(t.Type)),
			APIKey:   t.APIKey,
			Disabled: t.Disabled,
			Decoder:  t.Decoder,
			Codes:    t.Codes,
		})
	}
	return blacklists, nil
}

// LoadConfigFile loads a blacklist table from path. Files ending in
// ".toml" are parsed with [LoadTOMLConfig], everything else with
// [LoadConfig].
func LoadConfigFile(path string) ([]Blacklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadTOMLConfig(f)
	}
	return LoadConfig(f)
}

// LoadTLDFile loads a TLD override list from path.
func LoadTLDFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTLDList(f)
}

// DefaultBlacklists returns the bundled blacklist table.
func DefaultBlacklists() []Blacklist {
	blacklists, err := LoadConfig(bytes.NewReader(mustBundled("data/dnsbl.yaml")))
	if err != nil {
		panic(err)
	}
	return blacklists
}

// DefaultTwoLevelTLDs returns the bundled two-level override list.
func DefaultTwoLevelTLDs() []string {
	return mustBundledList("data/two-level-tlds")
}

// DefaultThreeLevelTLDs returns the bundled three-level override list.
func DefaultThreeLevelTLDs() []string {
	return mustBundledList("data/three-level-tlds")
}

func mustBundled(name string) []byte {
	b, err := bundled.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return b
}

func mustBundledList(name string) []string {
	list, err := LoadTLDList(bytes.NewReader(mustBundled(name)))
	if err != nil {
		panic(err)
	}
	return list
}
