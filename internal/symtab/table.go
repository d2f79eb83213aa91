// SPDX-License-Identifier: GPL-3.0-or-later

// Package symtab tracks the symbol / object-handle table described in
// spec.md §3: an append-only map from a 16-bit firmware-assigned handle to
// the (class, name, properties) tuple first bound to it.
package symtab

import "fmt"

// Handle is a 16-bit object identifier assigned by the firmware. The
// reserved value 0 means "unknown/startup".
type Handle uint16

// Unknown is the reserved handle meaning "unknown/startup".
const Unknown Handle = 0

// Class identifies the kind of kernel object a [Handle] refers to.
type Class int

const (
	ClassUnknown Class = iota
	ClassTask
	ClassISR
	ClassQueue
	ClassSemaphore
	ClassMutex
	ClassEventGroup
	ClassStreamBuffer
	ClassStateMachine
	ClassStateMachineState
	ClassUserEventChannel
)

// String implements [fmt.Stringer].
func (c Class) String() string {
	switch c {
	case ClassTask:
		return "task"
	case ClassISR:
		return "isr"
	case ClassQueue:
		return "queue"
	case ClassSemaphore:
		return "semaphore"
	case ClassMutex:
		return "mutex"
	case ClassEventGroup:
		return "event_group"
	case ClassStreamBuffer:
		return "stream_buffer"
	case ClassStateMachine:
		return "state_machine"
	case ClassStateMachineState:
		return "state_machine_state"
	case ClassUserEventChannel:
		return "user_event_channel"
	default:
		return "unknown"
	}
}

// Entry is the symbol-table record bound to a [Handle].
type Entry struct {
	Class Class
	Name  string

	// Priority is set for ClassTask.
	Priority uint32
	// StackSize is set for ClassTask.
	StackSize uint32
	// QueueLength is set for ClassQueue (and its length-bearing siblings).
	QueueLength uint32
	// HeapSize is set for objects created from a heap-sized region.
	HeapSize uint32
	// StateMachineHandle is set for ClassStateMachineState, pointing back at
	// the owning state machine's handle.
	StateMachineHandle Handle
	// States is set for ClassStateMachine: handle -> state name, populated
	// incrementally as STATEMACHINE_STATE_CREATE events arrive.
	States map[Handle]string
}

// RebindError reports an attempt to bind a handle that is already bound to a
// different (class, name) pair. Per spec.md §3 this is a fault, reported as
// a "dropped handle" warning by the translator rather than returned as a
// hard error.
type RebindError struct {
	Handle   Handle
	Existing Entry
	Attempt  Entry
}

func (e *RebindError) Error() string {
	return fmt.Sprintf("symtab: handle %d already bound to %s %q, refusing rebind to %s %q",
		e.Handle, e.Existing.Class, e.Existing.Name, e.Attempt.Class, e.Attempt.Name)
}

// Table is the append-only symbol table. The zero value is ready to use.
type Table struct {
	entries map[Handle]Entry
}

// Bind records ent for handle if the handle is unbound. If the handle is
// already bound to a different (class, name) pair, Bind leaves the existing
// binding untouched and returns a [*RebindError]; the caller (translator)
// logs this as a warning and otherwise proceeds normally. Binding the same
// (class, name) pair again is idempotent and returns nil.
func (t *Table) Bind(handle Handle, ent Entry) error {
	if t.entries == nil {
		t.entries = make(map[Handle]Entry)
	}
	existing, ok := t.entries[handle]
	if !ok {
		t.entries[handle] = ent
		return nil
	}
	if existing.Class == ent.Class && existing.Name == ent.Name {
		return nil
	}
	return &RebindError{Handle: handle, Existing: existing, Attempt: ent}
}

// Lookup returns the entry bound to handle, if any.
func (t *Table) Lookup(handle Handle) (Entry, bool) {
	ent, ok := t.entries[handle]
	return ent, ok
}

// AddState records a state-machine state name under the owning state
// machine's handle, creating the state machine's States map on first use.
// The state machine itself must already be bound via Bind.
func (t *Table) AddState(machine Handle, state Handle, name string) {
	ent, ok := t.entries[machine]
	if !ok {
		return
	}
	if ent.States == nil {
		ent.States = make(map[Handle]string)
	}
	ent.States[state] = name
	t.entries[machine] = ent
}

// Symbol returns the display name for handle, or "" if unbound.
func (t *Table) Symbol(handle Handle) string {
	if ent, ok := t.entries[handle]; ok {
		return ent.Name
	}
	return ""
}
