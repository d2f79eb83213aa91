// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwtrace/reflector/internal/tracerecorder"
)

func TestFormatPrintfBasic(t *testing.T) {
	args := []tracerecorder.Parameter{{Int: 7}, {Str: "queue-full"}}
	got := formatPrintf("retry %d on %s", args)
	assert.Equal(t, "retry 7 on queue-full", got)
}

func TestFormatPrintfHex(t *testing.T) {
	args := []tracerecorder.Parameter{{Uint: 255}}
	assert.Equal(t, "addr 0xff", formatPrintf("addr 0x%x", args))
}

func TestFormatPrintfLiteralPercent(t *testing.T) {
	assert.Equal(t, "100%", formatPrintf("100%%", nil))
}

func TestFormatPrintfTooFewArgsDegradesGracefully(t *testing.T) {
	got := formatPrintf("a=%d b=%d", []tracerecorder.Parameter{{Int: 1}})
	assert.Equal(t, "a=1 b=", got)
}

func TestFormatPrintfUnrecognisedVerbPassesThrough(t *testing.T) {
	got := formatPrintf("%q is odd", []tracerecorder.Parameter{{Int: 1}})
	assert.Equal(t, "%q is odd", got)
}
