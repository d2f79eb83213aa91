// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// deviantEventNames is ordered by offset from deviant-event-id-base
// (spec.md §4.4, §6): 0=mutator announced, 1=mutator retired, 2=mutation
// command communicated, 3=mutation clear communicated, 4=mutation
// triggered, 5=mutation injected.
var deviantEventNames = [6]string{
	MutatorAnnounced,
	MutatorRetired,
	MutationCommandCommunicated,
	MutationClearCommunicated,
	MutationTriggered,
	MutationInjected,
}

// translateDeviant handles the six fault-injection events a recorder build
// instrumented with Deviant emits at deviant-event-id-base+offset.
func translateDeviant(state *interp.State, ev tracerecorder.Event, f frame, offset int) []sinkop.Op {
	if offset < 0 || offset >= len(deviantEventNames) {
		return nil
	}
	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	id := state.TimelineFor(ctx.Handle)

	attrs := f.baseAttrs()
	if mutatorID := paramUint(ev, "mutator_id"); mutatorID != 0 {
		attrs.Set(AttrMutatorID, sinkop.UintAttr(mutatorID))
	}
	if mutationID := paramUint(ev, "mutation_id"); mutationID != 0 {
		attrs.Set(AttrMutationID, sinkop.UintAttr(mutationID))
	}
	if offset == 4 || offset == 5 {
		attrs.Set(AttrMutationSuccess, sinkop.BoolAttr(paramUint(ev, "success") != 0))
	}

	return []sinkop.Op{emit(state, id, deviantEventNames[offset], attrs)}
}

func translateCustomPrintf(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	id := state.TimelineFor(ctx.Handle)

	format := paramStr(ev, "format_string")
	args := userEventArgs(ev)
	formatted := formatPrintf(format, args)

	attrs := f.baseAttrs()
	attrs.Set(AttrFormattedString, sinkop.StringAttr(formatted))
	return []sinkop.Op{emit(state, id, EventUserEvent, attrs)}
}
