// SPDX-License-Identifier: GPL-3.0-or-later

// Package interp owns the interpreter state described in spec.md §4.3: the
// symbol table, rollover trackers, active-context stack, per-timeline
// CPU-utilization windows, and the config-derived match tables the
// translator consults. State is mutated exclusively by the translator
// (package translate); nothing else reads or writes it.
package interp

import (
	"github.com/fwtrace/reflector/internal/config"
	"github.com/fwtrace/reflector/internal/rollover"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// Context identifies a currently-executing task or ISR on the active-context
// stack.
type Context struct {
	Handle symtab.Handle
	IsISR  bool
}

// CPUWindow accumulates runtime for one context between consecutive
// TASK_ACTIVATE/ISR events, per spec.md §4.6.
type CPUWindow struct {
	RuntimeInWindow uint64
	TotalRuntime    uint64
	WindowStartTick uint64
	LastTick        uint64
}

// State is the interpreter's mutable state. The zero value is not ready to
// use; construct with [New].
type State struct {
	Config *config.Document

	// Header is the one-time bundle reported by the event source, recorded
	// via [State.SetHeader] before the first event is translated.
	Header tracerecorder.Header

	Symtab symtab.Table

	EventCounter rollover.Tracker
	Timer        rollover.Tracker

	RunID [16]byte

	StartupTimeline sinkop.TimelineID

	// ActiveStack is the logical [task, isr0, isr1, ...] stack from spec.md
	// §3: index 0 is the task, the rest are nested ISRs.
	ActiveStack []Context

	// LastEventID is, per timeline, the ordinal of the most recently
	// emitted event -- used to originate interactions. In fully-linearized
	// mode, the translator reads the previous context's entry here before
	// mutating the active-context stack, which is the "pending-buffer"
	// design note in spec.md §9: since translation is synchronous, the
	// source ordinal is simply whatever was last recorded for the
	// previous timeline, no separate buffer is needed.
	LastEventID map[sinkop.TimelineID]uint64

	// IPCPending tracks at most one outstanding SEND per (queue handle,
	// direction) for ipc-mode pairing (spec.md §4.4 QUEUE_SEND).
	IPCPending map[ipcKey]ipcPending

	// CPUWindows is, per context handle, the accumulator from spec.md §4.6.
	CPUWindows map[symtab.Handle]*CPUWindow

	// ExpectedEventCounter is the event_count_extended value expected for
	// the next event, for drop detection (spec.md §4.5). Nil before the
	// first event has been seen.
	ExpectedEventCounter *uint64

	// DeclaredTimelines records which timeline IDs have already been
	// opened, so the translator never emits an event before its owning
	// timeline has been declared (spec.md §4.3 invariant).
	DeclaredTimelines map[sinkop.TimelineID]bool

	// HeaderSeen is true once the event source's header has been recorded
	// via [State.SetHeader].
	HeaderSeen bool
}

type ipcKey struct {
	Handle    symtab.Handle
	Direction string // "send" or "notify"
}

type ipcPending struct {
	Timeline sinkop.TimelineID
	Ordinal  uint64
}

// New constructs interpreter state for a run identified by runID, using doc
// for the config-derived match tables.
func New(doc *config.Document, runID [16]byte) *State {
	return &State{
		Config:            doc,
		RunID:             runID,
		LastEventID:       make(map[sinkop.TimelineID]uint64),
		IPCPending:        make(map[ipcKey]ipcPending),
		CPUWindows:        make(map[symtab.Handle]*CPUWindow),
		DeclaredTimelines: make(map[sinkop.TimelineID]bool),
	}
}

// SetHeader records the event source's one-time header. It must be called
// before the first call to [State.AdvanceCounter] or the translator.
func (s *State) SetHeader(hdr tracerecorder.Header) {
	s.Header = hdr
	s.HeaderSeen = true
}

// CurrentContext returns the context at the top of the active-context
// stack (the innermost running ISR, or the task if no ISR is active), and
// false if the stack is empty (before the first TASK_ACTIVATE).
func (s *State) CurrentContext() (Context, bool) {
	if len(s.ActiveStack) == 0 {
		return Context{}, false
	}
	return s.ActiveStack[len(s.ActiveStack)-1], true
}

// PushISR pushes an ISR context onto the active-context stack.
func (s *State) PushISR(handle symtab.Handle) {
	s.ActiveStack = append(s.ActiveStack, Context{Handle: handle, IsISR: true})
}

// ReplaceTopISR replaces the topmost ISR context (TASK_SWITCH_ISR_RESUME)
// without growing the stack, or pushes if the stack holds only the task.
func (s *State) ReplaceTopISR(handle symtab.Handle) {
	if len(s.ActiveStack) > 0 && s.ActiveStack[len(s.ActiveStack)-1].IsISR {
		s.ActiveStack[len(s.ActiveStack)-1] = Context{Handle: handle, IsISR: true}
		return
	}
	s.PushISR(handle)
}

// PopISR pops the topmost ISR context on implicit ISR exit, returning the
// context that becomes current, and false if no ISR was active.
func (s *State) PopISR() (Context, bool) {
	if len(s.ActiveStack) == 0 || !s.ActiveStack[len(s.ActiveStack)-1].IsISR {
		return Context{}, false
	}
	s.ActiveStack = s.ActiveStack[:len(s.ActiveStack)-1]
	return s.CurrentContext()
}

// ActivateTask replaces the task at the bottom of the active-context stack
// (TASK_ACTIVATE), discarding any ISRs that were nested above the previous
// task: a new task activation means the old task (and anything it was
// interrupted by) has finished its turn.
func (s *State) ActivateTask(handle symtab.Handle) {
	s.ActiveStack = []Context{{Handle: handle, IsISR: false}}
}

// NextOrdinal returns the next ordinal to assign on timeline id and records
// it as the timeline's last-event-id.
func (s *State) NextOrdinal(id sinkop.TimelineID) uint64 {
	next := s.LastEventID[id] + 1
	s.LastEventID[id] = next
	return next
}

// LastOrdinal returns the most recently assigned ordinal on timeline id,
// without assigning a new one, and false if no event has been emitted on
// it yet.
func (s *State) LastOrdinal(id sinkop.TimelineID) (uint64, bool) {
	ord, ok := s.LastEventID[id]
	return ord, ok
}
