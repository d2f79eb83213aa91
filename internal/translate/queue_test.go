// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwtrace/reflector/internal/config"
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

func newIPCTestState(t *testing.T) *interp.State {
	t.Helper()
	doc := &config.Document{Metadata: config.Metadata{InteractionMode: "ipc"}}
	s := interp.New(doc, [16]byte{9})
	s.ActivateTask(1)
	return s
}

func queueEvent(handle uint16) tracerecorder.Event {
	return tracerecorder.Event{ID: handle}
}

func TestTranslateQueueOpSendThenReceiveProducesInteraction(t *testing.T) {
	state := newIPCTestState(t)

	sendOps := translateQueueOp(state, queueEvent(7), newFrame(state, queueEvent(7)), EventQueueSend, true)
	require.Len(t, sendOps, 1)

	recvOps := translateQueueOp(state, queueEvent(7), newFrame(state, queueEvent(7)), EventQueueReceive, false)
	require.Len(t, recvOps, 2)
	assert.NotNil(t, recvOps[0].EmitEvent)
	assert.NotNil(t, recvOps[1].EmitInteraction)
}

func TestTranslateQueueOpWithoutIPCModeNeverProducesInteraction(t *testing.T) {
	doc := &config.Document{}
	state := interp.New(doc, [16]byte{9})
	state.ActivateTask(1)

	translateQueueOp(state, queueEvent(7), newFrame(state, queueEvent(7)), EventQueueSend, true)
	ops := translateQueueOp(state, queueEvent(7), newFrame(state, queueEvent(7)), EventQueueReceive, false)
	require.Len(t, ops, 1)
}

func TestTranslateQueueOpNoCurrentContextIsNoop(t *testing.T) {
	doc := &config.Document{Metadata: config.Metadata{InteractionMode: "ipc"}}
	state := interp.New(doc, [16]byte{9})

	ops := translateQueueOp(state, queueEvent(7), newFrame(state, queueEvent(7)), EventQueueSend, true)
	assert.Nil(t, ops)
}

func TestTranslateTaskNotifyMatchesOnNotifyHandle(t *testing.T) {
	state := newIPCTestState(t)
	target := tracerecorder.Event{ID: 42}

	notifyOps := translateTaskNotify(state, target, newFrame(state, target), true)
	require.Len(t, notifyOps, 1)

	recvOps := translateTaskNotify(state, target, newFrame(state, target), false)
	require.Len(t, recvOps, 2)
	assert.NotNil(t, recvOps[1].EmitInteraction)
}
