// SPDX-License-Identifier: GPL-3.0-or-later

// Package rollover extends a 32-bit firmware counter (event counter or
// timer) into a monotonically non-decreasing 64-bit value, per spec.md §3.
package rollover

import "github.com/bassosimone/runtimex"

// halfRange is half of the 32-bit counter's range. A raw value that jumps
// backwards by more than this, relative to the previous raw value, is
// treated as a wraparound rather than a regression.
const halfRange = uint64(1) << 31

// Tracker holds the last raw 32-bit value observed and the accumulated
// 64-bit extended value. The zero value is ready to use and starts at
// extended 0 before the first [Tracker.Next] call.
type Tracker struct {
	have     bool
	lastRaw  uint32
	extended uint64
}

// Next extends raw into the tracker's 64-bit counter space.
//
// On the first call, the extended value is raw itself. On subsequent calls,
// if raw is numerically less than the previous raw value by more than half
// the 32-bit range, a wraparound is assumed and the high word is
// incremented; otherwise the extended value advances by the forward delta
// (which may be zero or negative-looking deltas smaller than half-range are
// clamped to the last extended value, since the extended counter must never
// decrease).
func (t *Tracker) Next(raw uint32) uint64 {
	prevExtended := t.extended

	if !t.have {
		t.have = true
		t.lastRaw = raw
		t.extended = uint64(raw)
		return t.extended
	}

	prevRaw := t.lastRaw
	t.lastRaw = raw

	switch {
	case raw >= prevRaw:
		t.extended += uint64(raw - prevRaw)
	case uint64(prevRaw-raw) > halfRange:
		// Wraparound: the counter rolled from prevRaw, past 2^32-1, back to
		// raw. The forward delta across the wrap is (2^32 - prevRaw) + raw.
		t.extended += uint64(1)<<32 - uint64(prevRaw) + uint64(raw)
	default:
		// Small backward jump within half-range: noise or an out-of-order
		// sample, not a wrap. Hold the extended value flat.
	}

	runtimex.Assert(t.extended >= prevExtended)
	return t.extended
}

// Extended returns the last computed extended value without advancing the
// tracker.
func (t *Tracker) Extended() uint64 {
	return t.extended
}
