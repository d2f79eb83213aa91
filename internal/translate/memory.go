// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

func translateMemory(state *interp.State, ev tracerecorder.Event, f frame, name string) []sinkop.Op {
	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	id := state.TimelineFor(ctx.Handle)

	attrs := f.baseAttrs()
	attrs.Set(AttrAddress, sinkop.UintAttr(paramUint(ev, "address")))
	attrs.Set(AttrSize, sinkop.UintAttr(paramUint(ev, "size")))
	attrs.Set(AttrHeapCounter, sinkop.UintAttr(paramUint(ev, "heap_counter")))
	return []sinkop.Op{emit(state, id, name, attrs)}
}

func translateUnusedStack(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	id := state.TimelineFor(ctx.Handle)

	attrs := f.baseAttrs()
	attrs.Set(AttrTask, sinkop.StringAttr(state.Symtab.Symbol(ctx.Handle)))
	attrs.Set(AttrLowMark, sinkop.UintAttr(paramUint(ev, "low_mark")))
	return []sinkop.Op{emit(state, id, EventUnusedStack, attrs)}
}
