// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `---
SPAMHAUS:
  domain: zen.spamhaus.org
  type: ip
  127.0.0.2: SBL
  127.0.0.4: XBL
PROJECTHONEYPOT:
  domain: dnsbl.httpbl.org
  type: ip
  apikey: abcdefghijkl
  decoder: phpot
SORBS:
  domain: dnsbl.sorbs.net
  type: ip
  disabled: true
DBL:
  domain: dbl.spamhaus.org
  type: domain
  127.0.1.2: spam domain
`

const tomlConfig = `
[SPAMHAUS]
domain = "zen.spamhaus.org"
type = "ip"

[SPAMHAUS.codes]
"127.0.0.2" = "SBL"
"127.0.0.4" = "XBL"

[PROJECTHONEYPOT]
domain = "dnsbl.httpbl.org"
type = "ip"
apikey = "abcdefghijkl"
decoder = "phpot"

[SORBS]
domain = "dnsbl.sorbs.net"
type = "ip"
disabled = true

[DBL]
domain = "dbl.spamhaus.org"
type = "domain"

[DBL.codes]
"127.0.1.2" = "spam domain"
`

func assertLoadedConfig(t *testing.T, blacklists []Blacklist) {
	t.Helper()

	require.Len(t, blacklists, 4)
	names := make([]string, len(blacklists))
	for i, b := range blacklists {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"SPAMHAUS", "PROJECTHONEYPOT", "SORBS", "DBL"}, names, "order is preserved")

	spamhaus := blacklists[0]
	assert.Equal(t, "zen.spamhaus.org", spamhaus.Zone)
	assert.Equal(t, QueryIP, spamhaus.Type)
	assert.Equal(t, map[string]string{"127.0.0.2": "SBL", "127.0.0.4": "XBL"}, spamhaus.Codes)

	hp := blacklists[1]
	assert.Equal(t, "abcdefghijkl", hp.APIKey)
	assert.Equal(t, "phpot", hp.Decoder)
	assert.Empty(t, hp.Codes)

	assert.True(t, blacklists[2].Disabled)
	assert.False(t, spamhaus.Disabled)

	assert.Equal(t, QueryDomain, blacklists[3].Type)
	assert.Equal(t, "spam domain", blacklists[3].Codes["127.0.1.2"])
}

func TestLoadConfig(t *testing.T) {
	blacklists, err := LoadConfig(strings.NewReader(yamlConfig))
	require.NoError(t, err)
	assertLoadedConfig(t, blacklists)
}

func TestLoadTOMLConfig(t *testing.T) {
	blacklists, err := LoadTOMLConfig(strings.NewReader(tomlConfig))
	require.NoError(t, err)
	assertLoadedConfig(t, blacklists)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "dnsbl.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlConfig), 0o600))
	tomlPath := filepath.Join(dir, "dnsbl.TOML")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlConfig), 0o600))

	fromYAML, err := LoadConfigFile(yamlPath)
	require.NoError(t, err)
	fromTOML, err := LoadConfigFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, fromYAML, fromTOML)

	_, err = LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a mapping", "- a\n- b\n"},
		{"blacklist not a mapping", "SPAMHAUS: zen.spamhaus.org\n"},
		{"bad disabled", "X:\n  domain: x.example\n  disabled: maybe\n"},
		{"broken yaml", "X: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("empty document", func(t *testing.T) {
		blacklists, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, blacklists)
	})

	t.Run("broken toml", func(t *testing.T) {
		_, err := LoadTOMLConfig(strings.NewReader("[X\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestCompileValidation(t *testing.T) {
	_, err := compile(Blacklist{Zone: "x.example"}, builtinDecoders)
	assert.ErrorIs(t, err, ErrInvalidConfig, "name required")

	_, err = compile(Blacklist{Name: "X"}, builtinDecoders)
	assert.ErrorIs(t, err, ErrInvalidConfig, "zone required")

	_, err = compile(Blacklist{Name: "X", Zone: "x.example", Type: "asn"}, builtinDecoders)
	assert.ErrorIs(t, err, ErrInvalidConfig, "type checked")

	bl, err := compile(Blacklist{Name: "X", Zone: " .X.Example. "}, builtinDecoders)
	require.NoError(t, err)
	assert.Equal(t, QueryIP, bl.Type, "type defaults to ip")
	assert.Equal(t, "X.Example", bl.Zone)
	assert.Equal(t, "x.example", bl.zone)
}

func TestDefaultBlacklists(t *testing.T) {
	blacklists := DefaultBlacklists()
	require.NotEmpty(t, blacklists)

	seen := make(map[string]bool)
	for _, b := range blacklists {
		assert.False(t, seen[b.Name], "duplicate %s", b.Name)
		seen[b.Name] = true

		_, err := compile(b, builtinDecoders)
		assert.NoError(t, err, b.Name)
	}
	assert.True(t, seen["SPAMHAUS"])
	assert.True(t, seen["PROJECTHONEYPOT"])
}
