// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// frame bundles the per-event values every translation case needs: the
// rollover-extended counters and the attributes every emitted event carries
// regardless of kind (spec.md §4.5).
type frame struct {
	rawCount uint32
	rawTicks uint32
	extCount uint64
	extTicks uint64
	tsNanos  uint64
	dropped  uint64
	gap      bool
}

func newFrame(state *interp.State, ev tracerecorder.Event) frame {
	extCount, dropped, gap := state.AdvanceCounter(ev.EventCount)
	extTicks := state.AdvanceTimer(ev.TimerTicks)
	var ts uint64
	if state.Header.FrequencyHz != 0 {
		ts = interp.TimestampNanos(extTicks, state.Header.FrequencyHz)
	}
	return frame{
		rawCount: ev.EventCount, rawTicks: ev.TimerTicks,
		extCount: extCount, extTicks: extTicks,
		tsNanos: ts, dropped: dropped, gap: gap,
	}
}

// baseAttrs returns the attribute set every emitted event starts from
// (spec.md §4.5: raw and rollover-tracked ticks/counters on every event,
// plus the nanosecond timestamp once the header's frequency is known).
func (f frame) baseAttrs() sinkop.Attrs {
	var a sinkop.Attrs
	if f.tsNanos != 0 {
		a.Set(AttrTimestamp, sinkop.UintAttr(f.tsNanos))
	}
	a.Set(AttrTimerTicksRaw, sinkop.UintAttr(uint64(f.rawTicks)))
	a.Set(AttrTimestampTicks, sinkop.UintAttr(f.extTicks))
	a.Set(AttrEventCountRaw, sinkop.UintAttr(uint64(f.rawCount)))
	a.Set(AttrEventCount, sinkop.UintAttr(f.extCount))
	if f.gap {
		a.Set(AttrDroppedPreceding, sinkop.UintAttr(f.dropped))
	}
	return a
}

// declareTimeline binds handle in the symbol table (logging a warning op is
// the caller's job, via the returned rebind error) and emits an OpenTimeline
// op the first time handle is seen, merging config-provided overrides
// (spec.md §4.4 TRACE_START, §6 additional/override-timeline-attributes).
func declareTimeline(state *interp.State, handle symtab.Handle, ent symtab.Entry, attrs sinkop.Attrs) (sinkop.TimelineID, []sinkop.Op, error) {
	bindErr := state.Symtab.Bind(handle, ent)
	id, first := state.EnsureTimeline(handle, ent.Name)
	if !first {
		return id, nil, bindErr
	}

	for k, v := range state.Config.Metadata.AdditionalTimelineAttributes {
		if _, ok := attrs.Get(k); !ok {
			attrs.Set(k, sinkop.StringAttr(v))
		}
	}
	for k, v := range state.Config.Metadata.OverrideTimelineAttributes {
		attrs.Set(k, sinkop.StringAttr(v))
	}
	attrs.Set(AttrClass, sinkop.StringAttr(ent.Class.String()))

	return id, []sinkop.Op{{OpenTimeline: &sinkop.OpenTimeline{ID: id, Name: ent.Name, Attrs: attrs}}}, bindErr
}

// emit assigns the next ordinal on id and wraps an EmitEvent op.
func emit(state *interp.State, id sinkop.TimelineID, name string, attrs sinkop.Attrs) sinkop.Op {
	ord := state.NextOrdinal(id)
	return sinkop.Op{EmitEvent: &sinkop.EmitEvent{Timeline: id, Name: name, Attrs: attrs, Ordinal: ord}}
}

// interaction wraps an EmitInteraction op from (srcTimeline, srcOrdinal) to
// the event just assigned on (dstTimeline, dstOrdinal).
func interaction(srcTimeline sinkop.TimelineID, srcOrdinal uint64, dstTimeline sinkop.TimelineID, dstOrdinal uint64) sinkop.Op {
	return sinkop.Op{EmitInteraction: &sinkop.EmitInteraction{
		SrcTimeline: srcTimeline, SrcOrdinal: srcOrdinal,
		DstTimeline: dstTimeline, DstOrdinal: dstOrdinal,
	}}
}

// paramUint returns the value of the named parameter, or 0 if absent.
func paramUint(ev tracerecorder.Event, name string) uint64 {
	for _, p := range ev.Parameters {
		if p.Name == name {
			return p.Uint
		}
	}
	return 0
}

func paramInt(ev tracerecorder.Event, name string) int64 {
	for _, p := range ev.Parameters {
		if p.Name == name {
			return p.Int
		}
	}
	return 0
}

func paramStr(ev tracerecorder.Event, name string) string {
	for _, p := range ev.Parameters {
		if p.Name == name {
			return p.Str
		}
	}
	return ""
}

func paramHandle(ev tracerecorder.Event, name string) symtab.Handle {
	return symtab.Handle(paramUint(ev, name))
}

// ignoredClass reports whether class is configured as ignored (spec.md
// §4.3 ignored-object-classes): such objects get no timeline, and events
// concerning them are silently dropped.
func ignoredClass(state *interp.State, class symtab.Class) bool {
	for _, name := range state.Config.Metadata.IgnoredObjectClasses {
		if name == class.String() {
			return true
		}
	}
	return false
}
