// SPDX-License-Identifier: GPL-3.0-or-later

package sink

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwtrace/reflector/internal/sinkop"
)

func TestToWireBatchPreservesAttributeOrder(t *testing.T) {
	var attrs sinkop.Attrs
	attrs.Set("b", sinkop.StringAttr("second"))
	attrs.Set("a", sinkop.StringAttr("first"))

	batch := []sinkop.Op{
		{EmitEvent: &sinkop.EmitEvent{Name: "TASK_ACTIVATE", Ordinal: 1, Attrs: attrs}},
	}
	wire := toWireBatch(batch)
	require.Len(t, wire, 1)
	require.NotNil(t, wire[0].EmitEvent)
	require.Len(t, wire[0].EmitEvent.Attrs, 2)
	assert.Equal(t, "b", wire[0].EmitEvent.Attrs[0].Key)
	assert.Equal(t, "a", wire[0].EmitEvent.Attrs[1].Key)
}

func TestToWireBatchMarshalsOneFieldPerOpKind(t *testing.T) {
	batch := []sinkop.Op{
		{OpenTimeline: &sinkop.OpenTimeline{Name: "Worker"}},
		{EmitEvent: &sinkop.EmitEvent{Name: "TASK_ACTIVATE"}},
		{EmitInteraction: &sinkop.EmitInteraction{}},
	}
	payload, err := json.Marshal(toWireBatch(batch))
	require.NoError(t, err)

	var decoded []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Len(t, decoded, 3)
	assert.Contains(t, decoded[0], "open_timeline")
	assert.NotContains(t, decoded[0], "emit_event")
	assert.Contains(t, decoded[1], "emit_event")
	assert.Contains(t, decoded[2], "emit_interaction")
}
