// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// closeCPUWindow accumulates runtime for ctx up to the current tick and, if
// its measurement window just closed, emits the window-closure event from
// spec.md §4.6 on ctx's own timeline.
func closeCPUWindow(state *interp.State, ctx interp.Context, nowTick uint64) []sinkop.Op {
	windowTicks := uint64(state.Config.Metadata.MeasurementWindow.Seconds() * float64(state.Header.FrequencyHz))
	closed, ok := state.AccumulateRuntime(ctx.Handle, nowTick, windowTicks)
	if !ok {
		return nil
	}
	id := state.TimelineFor(ctx.Handle)
	var attrs sinkop.Attrs
	attrs.Set(AttrRuntimeWindow, sinkop.UintAttr(closed.RuntimeWindowTicks))
	attrs.Set(AttrRuntimeInWindow, sinkop.UintAttr(closed.RuntimeInWindowTicks))
	attrs.Set(AttrTotalRuntime, sinkop.UintAttr(closed.TotalRuntimeTicks))
	attrs.Set(AttrCPUUtilization, sinkop.FloatAttr(closed.CPUUtilization))
	return []sinkop.Op{emit(state, id, EventCPUUtilizationWindow, attrs)}
}

// linearize emits an interaction from the previous context's last event to
// the event just emitted on dst, when fully-linearized mode is configured
// (spec.md §4.4, §9).
func linearize(state *interp.State, prev interp.Context, hadPrev bool, dst sinkop.TimelineID, dstOrdinal uint64) []sinkop.Op {
	if state.Config.Metadata.InteractionMode != "fully-linearized" || !hadPrev {
		return nil
	}
	srcTimeline := state.TimelineFor(prev.Handle)
	srcOrdinal, ok := state.LastOrdinal(srcTimeline)
	if !ok {
		return nil
	}
	return []sinkop.Op{interaction(srcTimeline, srcOrdinal, dst, dstOrdinal)}
}

func translateTaskActivate(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	handle := symtab.Handle(ev.ID)
	var ops []sinkop.Op

	prev, hadPrev := state.CurrentContext()
	if hadPrev {
		ops = append(ops, closeCPUWindow(state, prev, f.extTicks)...)
	}

	state.ActivateTask(handle)
	id := state.TimelineFor(handle)

	attrs := f.baseAttrs()
	ev1 := emit(state, id, EventTaskActivate, attrs)
	ops = append(ops, ev1)
	ops = append(ops, linearize(state, prev, hadPrev, id, ev1.EmitEvent.Ordinal)...)
	return ops
}

func translateISRBegin(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	handle := symtab.Handle(ev.ID)
	var ops []sinkop.Op

	prev, hadPrev := state.CurrentContext()
	if hadPrev {
		ops = append(ops, closeCPUWindow(state, prev, f.extTicks)...)
	}

	state.PushISR(handle)
	id := state.TimelineFor(handle)

	attrs := f.baseAttrs()
	ev1 := emit(state, id, EventTaskSwitchISRBegin, attrs)
	ops = append(ops, ev1)
	ops = append(ops, linearize(state, prev, hadPrev, id, ev1.EmitEvent.Ordinal)...)
	return ops
}

// translateISRResume handles TASK_SWITCH_ISR_RESUME: either a nested ISR
// resuming control after an inner ISR returned, or the interrupted task
// resuming once no ISR remains active. Implicit ISR-exit resume still
// produces a fully-linearized interaction, per spec.md's resolution of the
// open question in §9.
func translateISRResume(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	handle := symtab.Handle(ev.ID)
	var ops []sinkop.Op

	prev, hadPrev := state.CurrentContext()
	if hadPrev {
		ops = append(ops, closeCPUWindow(state, prev, f.extTicks)...)
	}

	ent, _ := state.Symtab.Lookup(handle)
	if ent.Class == symtab.ClassISR {
		state.ReplaceTopISR(handle)
	} else {
		for {
			if _, popped := state.PopISR(); !popped {
				break
			}
		}
	}

	id := state.TimelineFor(handle)
	attrs := f.baseAttrs()
	ev1 := emit(state, id, EventTaskSwitchISRResume, attrs)
	ops = append(ops, ev1)
	ops = append(ops, linearize(state, prev, hadPrev, id, ev1.EmitEvent.Ordinal)...)
	return ops
}
