// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwtrace/reflector/internal/config"
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/symtab"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

func createEvent(handle uint16, name string, params ...tracerecorder.Parameter) tracerecorder.Event {
	all := append([]tracerecorder.Parameter{{Name: "name", Str: name}}, params...)
	return tracerecorder.Event{ID: handle, Parameters: all}
}

func TestTranslateCreateDeclaresTimelineOnce(t *testing.T) {
	state := interp.New(&config.Document{}, [16]byte{1})

	ops := translateCreate(state, createEvent(5, "Comms"), symtab.ClassTask)
	require.Len(t, ops, 1)
	require.NotNil(t, ops[0].OpenTimeline)
	assert.Equal(t, "Comms", ops[0].OpenTimeline.Name)

	ops = translateCreate(state, createEvent(5, "Comms"), symtab.ClassTask)
	assert.Nil(t, ops)
}

func TestTranslateCreateIgnoredClassBindsButEmitsNothing(t *testing.T) {
	doc := &config.Document{Metadata: config.Metadata{IgnoredObjectClasses: []string{"queue"}}}
	state := interp.New(doc, [16]byte{1})

	ops := translateCreate(state, createEvent(6, "WorkQueue"), symtab.ClassQueue)
	assert.Nil(t, ops)

	ent, ok := state.Symtab.Lookup(symtab.Handle(6))
	require.True(t, ok)
	assert.Equal(t, symtab.ClassQueue, ent.Class)
}

func TestTranslateCreateStateMachineStateRegistersNoOp(t *testing.T) {
	state := interp.New(&config.Document{}, [16]byte{1})
	state.Symtab.Bind(symtab.Handle(1), symtab.Entry{Class: symtab.ClassStateMachine, Name: "Light"})

	ev := createEvent(2, "Red", tracerecorder.Parameter{Name: "state_machine", Uint: 1})
	ops := translateCreate(state, ev, symtab.ClassStateMachineState)
	assert.Nil(t, ops)
}

func TestTranslateObjectDeleteDropsIPCPending(t *testing.T) {
	doc := &config.Document{Metadata: config.Metadata{InteractionMode: "ipc"}}
	state := interp.New(doc, [16]byte{1})
	state.ActivateTask(1)

	sendEv := createEvent(9, "Q")
	translateQueueOp(state, sendEv, newFrame(state, sendEv), EventQueueSend, true)

	translateObjectDelete(state, tracerecorder.Event{ID: 9})

	recvOps := translateQueueOp(state, sendEv, newFrame(state, sendEv), EventQueueReceive, false)
	require.Len(t, recvOps, 1)
}

func TestTranslateStatemachineStateChangeResolvesName(t *testing.T) {
	state := interp.New(&config.Document{}, [16]byte{1})
	state.ActivateTask(1)
	state.Symtab.Bind(symtab.Handle(1), symtab.Entry{Class: symtab.ClassStateMachine, Name: "Light"})
	state.Symtab.AddState(symtab.Handle(1), symtab.Handle(2), "Red")

	ev := tracerecorder.Event{ID: 1, Parameters: []tracerecorder.Parameter{{Name: "state", Uint: 2}}}
	ops := translateStatemachineStateChange(state, ev, newFrame(state, ev))
	require.Len(t, ops, 1)
	v, ok := ops[0].EmitEvent.Attrs.Get(AttrState)
	require.True(t, ok)
	assert.Equal(t, "Red", v.String())
}
