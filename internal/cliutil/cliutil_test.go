// SPDX-License-Identifier: GPL-3.0-or-later

package cliutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwtrace/reflector/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveRunIDGeneratesWhenEmpty(t *testing.T) {
	id, err := ResolveRunID("", discardLogger())
	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, id)
}

func TestResolveRunIDParsesHyphenatedUUID(t *testing.T) {
	id, err := ResolveRunID("123e4567-e89b-12d3-a456-426614174000", discardLogger())
	require.NoError(t, err)
	assert.Equal(t, byte(0x12), id[0])
	assert.Equal(t, byte(0x3e), id[1])
}

func TestResolveRunIDParses32HexDigits(t *testing.T) {
	id, err := ResolveRunID("00112233445566778899aabbccddeeff"[:32], discardLogger())
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), id[0])
	assert.Equal(t, byte(0x11), id[1])
}

func TestResolveRunIDRejectsGarbage(t *testing.T) {
	_, err := ResolveRunID("not-a-valid-run-id!!", discardLogger())
	assert.Error(t, err)
}

func TestLoadConfigRequiresConfigPath(t *testing.T) {
	_, err := LoadConfig(IngestFlags{})
	assert.Error(t, err)
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reflector.toml")
	body := "[ingest]\n" +
		"protocol-parent-url = \"https://example.test/ingest\"\n" +
		"\n[metadata]\n" +
		"startup-task-name = \"(startup)\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigAppliesFlagOverrides(t *testing.T) {
	doc, err := LoadConfig(IngestFlags{
		ConfigPath:        writeTestConfig(t),
		ProtocolParentURL: "https://override.test/ingest",
		AllowInsecureTLS:  true,
		RunID:             "123e4567-e89b-12d3-a456-426614174000",
		TimeDomain:        "monotonic",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://override.test/ingest", doc.Ingest.ProtocolParentURL)
	assert.True(t, doc.Ingest.AllowInsecureTLS)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", doc.Ingest.RunID)
	assert.Equal(t, "monotonic", doc.Ingest.TimeDomain)
}

func TestLoadConfigKeepsFileValuesWhenFlagsAreZero(t *testing.T) {
	doc, err := LoadConfig(IngestFlags{ConfigPath: writeTestConfig(t)})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/ingest", doc.Ingest.ProtocolParentURL)
	assert.False(t, doc.Ingest.AllowInsecureTLS)
}

func TestNewSinkRequiresProtocolParentURL(t *testing.T) {
	_, err := NewSink(&config.Document{}, discardLogger())
	assert.Error(t, err)
}

func TestNewSinkBuildsBufferedSink(t *testing.T) {
	doc := &config.Document{Ingest: config.Ingest{ProtocolParentURL: "https://example.test/ingest"}}
	s, err := NewSink(doc, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, s)
}
