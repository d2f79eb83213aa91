// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// translateQueueOp handles QUEUE_SEND/QUEUE_RECEIVE and their *_FROM_ISR
// variants (spec.md §4.4): the event is emitted on the current context's
// own timeline, and in "ipc" interaction mode a SEND/RECEIVE pair on the
// same queue handle produces a cross-timeline interaction.
func translateQueueOp(state *interp.State, ev tracerecorder.Event, f frame, name string, send bool) []sinkop.Op {
	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	queue := symtab.Handle(ev.ID)
	id := state.TimelineFor(ctx.Handle)

	attrs := f.baseAttrs()
	attrs.Set(AttrQueue, sinkop.StringAttr(state.Symtab.Symbol(queue)))
	ev1 := emit(state, id, name, attrs)
	ops := []sinkop.Op{ev1}

	if state.Config.Metadata.InteractionMode != "ipc" {
		return ops
	}

	if send {
		state.RecordIPCSend(queue, "send", id, ev1.EmitEvent.Ordinal)
		return ops
	}

	srcTimeline, srcOrdinal, matched := state.MatchIPCReceive(queue, "send")
	if !matched {
		return ops
	}
	return append(ops, interaction(srcTimeline, srcOrdinal, id, ev1.EmitEvent.Ordinal))
}

// translateTaskNotify handles TASK_NOTIFY/TASK_NOTIFY_RECEIVE, keyed by the
// notified task's handle rather than a queue.
func translateTaskNotify(state *interp.State, ev tracerecorder.Event, f frame, notify bool) []sinkop.Op {
	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	target := symtab.Handle(ev.ID)
	id := state.TimelineFor(ctx.Handle)

	name := EventTaskNotifyReceive
	if notify {
		name = EventTaskNotify
	}
	attrs := f.baseAttrs()
	attrs.Set(AttrTask, sinkop.StringAttr(state.Symtab.Symbol(target)))
	ev1 := emit(state, id, name, attrs)
	ops := []sinkop.Op{ev1}

	if state.Config.Metadata.InteractionMode != "ipc" {
		return ops
	}

	if notify {
		state.RecordIPCSend(target, "notify", id, ev1.EmitEvent.Ordinal)
		return ops
	}

	srcTimeline, srcOrdinal, matched := state.MatchIPCReceive(target, "notify")
	if !matched {
		return ops
	}
	return append(ops, interaction(srcTimeline, srcOrdinal, id, ev1.EmitEvent.Ordinal))
}
