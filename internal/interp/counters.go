// SPDX-License-Identifier: GPL-3.0-or-later

package interp

import "math/big"

// AdvanceCounter extends rawCount via the event-counter rollover tracker
// and returns the extended value plus the drop-detection delta from
// spec.md §4.5: zero on the very first event or when the counter advanced
// by exactly one, otherwise the gap size (observed - previous - 1, modulo
// 2^32) together with gap=true meaning "the expected counter has been reset
// and a dropped_preceding_events attribute should be attached".
func (s *State) AdvanceCounter(rawCount uint32) (extended uint64, dropped uint64, gap bool) {
	extended = s.EventCounter.Next(rawCount)

	if s.ExpectedEventCounter == nil {
		next := extended + 1
		s.ExpectedEventCounter = &next
		return extended, 0, false
	}

	expected := *s.ExpectedEventCounter
	if extended == expected {
		next := extended + 1
		s.ExpectedEventCounter = &next
		return extended, 0, false
	}

	delta := (extended - expected) & 0xffffffff
	next := extended + 1
	s.ExpectedEventCounter = &next
	return extended, delta, true
}

// AdvanceTimer extends rawTicks via the timer rollover tracker.
func (s *State) AdvanceTimer(rawTicks uint32) uint64 {
	return s.Timer.Next(rawTicks)
}

// TimestampNanos converts extendedTicks to nanoseconds given frequencyHz,
// using a wide intermediate product to avoid overflow for large tick
// counts, per spec.md §4.5/§9: ticks * 1e9 / frequency computed as integer
// arithmetic throughout, never via an intermediate floating-point value.
func TimestampNanos(extendedTicks uint64, frequencyHz uint64) uint64 {
	if frequencyHz == 0 {
		return 0
	}
	product := new(big.Int).Mul(
		new(big.Int).SetUint64(extendedTicks),
		big.NewInt(1_000_000_000),
	)
	product.Div(product, new(big.Int).SetUint64(frequencyHz))
	return product.Uint64()
}
