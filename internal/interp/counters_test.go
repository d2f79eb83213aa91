// SPDX-License-Identifier: GPL-3.0-or-later

package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceCounterFirstEventNoGap(t *testing.T) {
	s := newTestState()
	extended, dropped, gap := s.AdvanceCounter(100)
	assert.Equal(t, uint64(100), extended)
	assert.Equal(t, uint64(0), dropped)
	assert.False(t, gap)
}

func TestAdvanceCounterSequentialNoGap(t *testing.T) {
	s := newTestState()
	s.AdvanceCounter(100)
	extended, dropped, gap := s.AdvanceCounter(101)
	assert.Equal(t, uint64(101), extended)
	assert.Equal(t, uint64(0), dropped)
	assert.False(t, gap)
}

func TestAdvanceCounterDetectsGap(t *testing.T) {
	s := newTestState()
	s.AdvanceCounter(100)
	extended, dropped, gap := s.AdvanceCounter(105)
	assert.Equal(t, uint64(105), extended)
	assert.True(t, gap)
	assert.Equal(t, uint64(4), dropped)
}

func TestAdvanceTimer(t *testing.T) {
	s := newTestState()
	assert.Equal(t, uint64(50), s.AdvanceTimer(50))
	assert.Equal(t, uint64(75), s.AdvanceTimer(75))
}

func TestTimestampNanos(t *testing.T) {
	assert.Equal(t, uint64(1_000_000_000), TimestampNanos(1_000_000, 1_000_000))
	assert.Equal(t, uint64(0), TimestampNanos(123, 0))
	assert.Equal(t, uint64(0), TimestampNanos(0, 1_000_000))
}
