// SPDX-License-Identifier: GPL-3.0-or-later

package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindAndLookup(t *testing.T) {
	var tab Table
	require.NoError(t, tab.Bind(1, Entry{Class: ClassTask, Name: "IdleTask"}))

	ent, ok := tab.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, ClassTask, ent.Class)
	assert.Equal(t, "IdleTask", ent.Name)
}

func TestBindIdempotent(t *testing.T) {
	var tab Table
	require.NoError(t, tab.Bind(1, Entry{Class: ClassTask, Name: "IdleTask"}))
	assert.NoError(t, tab.Bind(1, Entry{Class: ClassTask, Name: "IdleTask"}))
}

func TestBindRebindConflict(t *testing.T) {
	var tab Table
	require.NoError(t, tab.Bind(1, Entry{Class: ClassTask, Name: "IdleTask"}))

	err := tab.Bind(1, Entry{Class: ClassQueue, Name: "CommsQueue"})
	require.Error(t, err)

	var rebind *RebindError
	require.ErrorAs(t, err, &rebind)
	assert.Equal(t, Handle(1), rebind.Handle)

	// The original binding is left untouched.
	ent, ok := tab.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "IdleTask", ent.Name)
}

func TestLookupUnbound(t *testing.T) {
	var tab Table
	_, ok := tab.Lookup(99)
	assert.False(t, ok)
	assert.Equal(t, "", tab.Symbol(99))
}

func TestAddState(t *testing.T) {
	var tab Table
	require.NoError(t, tab.Bind(5, Entry{Class: ClassStateMachine, Name: "ConnState"}))

	tab.AddState(5, 1, "Disconnected")
	tab.AddState(5, 2, "Connected")

	ent, ok := tab.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, "Disconnected", ent.States[1])
	assert.Equal(t, "Connected", ent.States[2])
}

func TestAddStateUnboundMachineIsNoop(t *testing.T) {
	var tab Table
	tab.AddState(404, 1, "Unreachable")
	_, ok := tab.Lookup(404)
	assert.False(t, ok)
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "task", ClassTask.String())
	assert.Equal(t, "user_event_channel", ClassUserEventChannel.String())
	assert.Equal(t, "unknown", Class(999).String())
}
