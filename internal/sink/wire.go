// SPDX-License-Identifier: GPL-3.0-or-later

package sink

import "github.com/fwtrace/reflector/internal/sinkop"

// wireAttr is one ordered attribute, encoded as a (key, value) pair since
// JSON objects do not guarantee key order but the sink's wire contract
// preserves attribute insertion order (spec.md §3).
type wireAttr struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func wireAttrs(a sinkop.Attrs) []wireAttr {
	keys := a.Keys()
	out := make([]wireAttr, 0, len(keys))
	for _, k := range keys {
		v, _ := a.Get(k)
		out = append(out, wireAttr{Key: k, Value: v.Value()})
	}
	return out
}

// wireOp is the JSON encoding of a [sinkop.Op]: exactly one of the three
// fields is non-nil, mirroring the union it wraps.
type wireOp struct {
	OpenTimeline    *wireOpenTimeline    `json:"open_timeline,omitempty"`
	EmitEvent       *wireEmitEvent       `json:"emit_event,omitempty"`
	EmitInteraction *wireEmitInteraction `json:"emit_interaction,omitempty"`
}

type wireOpenTimeline struct {
	ID    sinkop.TimelineID `json:"id"`
	Name  string            `json:"name"`
	Attrs []wireAttr        `json:"attrs"`
}

type wireEmitEvent struct {
	Timeline sinkop.TimelineID `json:"timeline"`
	Name     string            `json:"name"`
	Ordinal  uint64            `json:"ordinal"`
	Attrs    []wireAttr        `json:"attrs"`
}

type wireEmitInteraction struct {
	SrcTimeline sinkop.TimelineID `json:"src_timeline"`
	SrcOrdinal  uint64            `json:"src_ordinal"`
	DstTimeline sinkop.TimelineID `json:"dst_timeline"`
	DstOrdinal  uint64            `json:"dst_ordinal"`
}

func toWireOp(op sinkop.Op) wireOp {
	var w wireOp
	switch {
	case op.OpenTimeline != nil:
		t := op.OpenTimeline
		w.OpenTimeline = &wireOpenTimeline{ID: t.ID, Name: t.Name, Attrs: wireAttrs(t.Attrs)}
	case op.EmitEvent != nil:
		e := op.EmitEvent
		w.EmitEvent = &wireEmitEvent{Timeline: e.Timeline, Name: e.Name, Ordinal: e.Ordinal, Attrs: wireAttrs(e.Attrs)}
	case op.EmitInteraction != nil:
		i := op.EmitInteraction
		w.EmitInteraction = &wireEmitInteraction{
			SrcTimeline: i.SrcTimeline, SrcOrdinal: i.SrcOrdinal,
			DstTimeline: i.DstTimeline, DstOrdinal: i.DstOrdinal,
		}
	}
	return w
}

func toWireBatch(batch []sinkop.Op) []wireOp {
	out := make([]wireOp, len(batch))
	for i, op := range batch {
		out[i] = toWireOp(op)
	}
	return out
}
