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

func newLinearizedTestState(t *testing.T) *interp.State {
	t.Helper()
	doc := &config.Document{Metadata: config.Metadata{InteractionMode: "fully-linearized"}}
	s := interp.New(doc, [16]byte{3})
	s.SetHeader(tracerecorder.Header{FrequencyHz: 1000})
	return s
}

func TestTranslateTaskActivateLinearizesAcrossSwitch(t *testing.T) {
	state := newLinearizedTestState(t)

	first := tracerecorder.Event{ID: 1}
	ops := translateTaskActivate(state, first, newFrame(state, first))
	require.Len(t, ops, 1)

	second := tracerecorder.Event{ID: 2}
	ops = translateTaskActivate(state, second, newFrame(state, second))
	require.Len(t, ops, 2)
	assert.NotNil(t, ops[0].EmitEvent)
	assert.NotNil(t, ops[1].EmitInteraction)
}

func TestTranslateTaskActivateFirstEventHasNoInteraction(t *testing.T) {
	state := newLinearizedTestState(t)
	ev := tracerecorder.Event{ID: 1}
	ops := translateTaskActivate(state, ev, newFrame(state, ev))
	require.Len(t, ops, 1)
}

func TestTranslateISRBeginAndResumePushAndPop(t *testing.T) {
	state := interp.New(&config.Document{}, [16]byte{3})
	state.ActivateTask(1)

	isrEv := tracerecorder.Event{ID: 2}
	ops := translateISRBegin(state, isrEv, newFrame(state, isrEv))
	require.Len(t, ops, 1)
	assert.Equal(t, EventTaskSwitchISRBegin, ops[0].EmitEvent.Name)

	ctx, ok := state.CurrentContext()
	require.True(t, ok)
	assert.EqualValues(t, 2, ctx.Handle)

	resumeEv := tracerecorder.Event{ID: 1}
	ops = translateISRResume(state, resumeEv, newFrame(state, resumeEv))
	require.Len(t, ops, 1)
	assert.Equal(t, EventTaskSwitchISRResume, ops[0].EmitEvent.Name)

	ctx, ok = state.CurrentContext()
	require.True(t, ok)
	assert.EqualValues(t, 1, ctx.Handle)
}

func TestCloseCPUWindowEmitsNothingBeforeWindowElapses(t *testing.T) {
	state := interp.New(&config.Document{}, [16]byte{3})
	state.SetHeader(tracerecorder.Header{FrequencyHz: 1000})
	state.ActivateTask(1)
	ctx, _ := state.CurrentContext()

	ops := closeCPUWindow(state, ctx, 1)
	assert.Nil(t, ops)
}
