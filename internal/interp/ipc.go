// SPDX-License-Identifier: GPL-3.0-or-later

package interp

import (
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
)

// RecordIPCSend records a pending IPC source for (handle, direction),
// overwriting any unmatched prior send for the same key per spec.md §4.4:
// "at most one outstanding pair per (queue, direction) is tracked --
// unmatched SENDs are dropped from the pair buffer on the first
// non-matching RECEIVE".
func (s *State) RecordIPCSend(handle symtab.Handle, direction string, timeline sinkop.TimelineID, ordinal uint64) {
	s.IPCPending[ipcKey{Handle: handle, Direction: direction}] = ipcPending{Timeline: timeline, Ordinal: ordinal}
}

// MatchIPCReceive consumes and returns the pending send for (handle,
// direction), if any, clearing it so at most one pair is emitted per send.
func (s *State) MatchIPCReceive(handle symtab.Handle, direction string) (srcTimeline sinkop.TimelineID, srcOrdinal uint64, ok bool) {
	key := ipcKey{Handle: handle, Direction: direction}
	p, found := s.IPCPending[key]
	if !found {
		return sinkop.TimelineID{}, 0, false
	}
	delete(s.IPCPending, key)
	return p.Timeline, p.Ordinal, true
}

// DropIPCPending clears any pending send for (handle, direction) without
// matching it, used when the queue/task is destroyed.
func (s *State) DropIPCPending(handle symtab.Handle, direction string) {
	delete(s.IPCPending, ipcKey{Handle: handle, Direction: direction})
}
