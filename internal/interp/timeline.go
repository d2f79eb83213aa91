// SPDX-License-Identifier: GPL-3.0-or-later

package interp

import (
	"encoding/binary"

	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
)

// TimelineFor derives the stable 128-bit timeline identifier for handle:
// run-id XOR object-handle, per spec.md §3. Handle is placed in the low two
// bytes of a 16-byte big-endian block before XOR-ing with the run id, so
// distinct handles within the same run never collide.
func (s *State) TimelineFor(handle symtab.Handle) sinkop.TimelineID {
	var block [16]byte
	binary.BigEndian.PutUint16(block[14:], uint16(handle))
	var id sinkop.TimelineID
	for i := range id {
		id[i] = s.RunID[i] ^ block[i]
	}
	return id
}

// EnsureTimeline returns handle's timeline id and records it as declared;
// the second result is true only the first time handle is seen, telling the
// caller to emit an [sinkop.OpenTimeline] op for it (re-declaration merges,
// per spec.md §4.7.1, so callers are free to emit one again whenever an
// attribute is set for the first time on an already-declared timeline).
func (s *State) EnsureTimeline(handle symtab.Handle, name string) (sinkop.TimelineID, bool) {
	id := s.TimelineFor(handle)
	firstTime := !s.DeclaredTimelines[id]
	s.DeclaredTimelines[id] = true
	return id, firstTime
}
