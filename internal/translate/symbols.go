// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"log/slog"

	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// translateCreate handles the object-creation family of events (spec.md
// §4.4): OBJECT_NAME, *_CREATE, and STATEMACHINE_STATE_CREATE. All but the
// last bind a handle in the symbol table and, unless the class is configured
// as ignored, declare its timeline; STATEMACHINE_STATE_CREATE only records
// the state name under its (already bound) state machine.
func translateCreate(state *interp.State, ev tracerecorder.Event, class symtab.Class) []sinkop.Op {
	handle := symtab.Handle(ev.ID)
	name := paramStr(ev, "name")

	if class == symtab.ClassStateMachineState {
		machine := paramHandle(ev, "state_machine")
		state.Symtab.AddState(machine, handle, name)
		return nil
	}

	if ignoredClass(state, class) {
		state.Symtab.Bind(handle, symtab.Entry{Class: class, Name: name})
		return nil
	}

	ent := symtab.Entry{Class: class, Name: name}
	var attrs sinkop.Attrs
	switch class {
	case symtab.ClassTask:
		ent.Priority = uint32(paramUint(ev, "priority"))
		ent.StackSize = uint32(paramUint(ev, "stack_size"))
		attrs.Set(AttrPriority, sinkop.UintAttr(uint64(ent.Priority)))
	case symtab.ClassQueue:
		ent.QueueLength = uint32(paramUint(ev, "queue_length"))
	}
	attrs.Set(AttrObjectHandle, sinkop.UintAttr(uint64(handle)))
	attrs.Set(AttrSymbol, sinkop.StringAttr(name))

	_, ops, err := declareTimeline(state, handle, ent, attrs)
	if err != nil {
		slog.Warn("trace_recorder: dropped handle rebind", "handle", handle, "error", err)
	}
	return ops
}

// translateObjectDelete removes no state (the symbol table is append-only
// per spec.md §3) but clears any IPC pairing left pending for handle so a
// later reused handle never matches a stale SEND.
func translateObjectDelete(state *interp.State, ev tracerecorder.Event) []sinkop.Op {
	handle := symtab.Handle(ev.ID)
	state.DropIPCPending(handle, "send")
	state.DropIPCPending(handle, "notify")
	return nil
}

func translateStatemachineStateChange(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	machine := symtab.Handle(ev.ID)
	stateHandle := paramHandle(ev, "state")

	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	id := state.TimelineFor(ctx.Handle)

	ent, _ := state.Symtab.Lookup(machine)
	stateName := ""
	if ent.States != nil {
		stateName = ent.States[stateHandle]
	}

	attrs := f.baseAttrs()
	attrs.Set(AttrStateMachine, sinkop.StringAttr(state.Symtab.Symbol(machine)))
	attrs.Set(AttrState, sinkop.StringAttr(stateName))
	return []sinkop.Op{emit(state, id, EventStatemachineChange, attrs)}
}
