// SPDX-License-Identifier: GPL-3.0-or-later

package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwtrace/reflector/internal/config"
	"github.com/fwtrace/reflector/internal/symtab"
)

func newTestState() *State {
	return New(&config.Document{}, [16]byte{1})
}

func TestCurrentContextEmpty(t *testing.T) {
	s := newTestState()
	_, ok := s.CurrentContext()
	assert.False(t, ok)
}

func TestActivateTaskDiscardsNestedISRs(t *testing.T) {
	s := newTestState()
	s.ActivateTask(10)
	s.PushISR(20)
	s.PushISR(21)

	ctx, ok := s.CurrentContext()
	assert.True(t, ok)
	assert.Equal(t, symtab.Handle(21), ctx.Handle)
	assert.True(t, ctx.IsISR)

	s.ActivateTask(30)
	ctx, ok = s.CurrentContext()
	assert.True(t, ok)
	assert.Equal(t, symtab.Handle(30), ctx.Handle)
	assert.False(t, ctx.IsISR)
}

func TestPushPopISR(t *testing.T) {
	s := newTestState()
	s.ActivateTask(1)
	s.PushISR(2)

	ctx, ok := s.PopISR()
	assert.True(t, ok)
	assert.Equal(t, symtab.Handle(1), ctx.Handle)
	assert.False(t, ctx.IsISR)

	_, ok = s.PopISR()
	assert.False(t, ok)
}

func TestReplaceTopISR(t *testing.T) {
	s := newTestState()
	s.ActivateTask(1)
	s.PushISR(2)
	s.ReplaceTopISR(3)

	ctx, ok := s.CurrentContext()
	assert.True(t, ok)
	assert.Equal(t, symtab.Handle(3), ctx.Handle)
	assert.True(t, ctx.IsISR)
}

func TestReplaceTopISRWithNoISRActivePushes(t *testing.T) {
	s := newTestState()
	s.ActivateTask(1)
	s.ReplaceTopISR(2)

	ctx, ok := s.CurrentContext()
	assert.True(t, ok)
	assert.Equal(t, symtab.Handle(2), ctx.Handle)
	assert.True(t, ctx.IsISR)
}

func TestOrdinalSequencing(t *testing.T) {
	s := newTestState()
	var id [16]byte
	id[0] = 0xAA

	assert.Equal(t, uint64(1), s.NextOrdinal(id))
	assert.Equal(t, uint64(2), s.NextOrdinal(id))

	last, ok := s.LastOrdinal(id)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), last)

	var other [16]byte
	other[0] = 0xBB
	_, ok = s.LastOrdinal(other)
	assert.False(t, ok)
}
