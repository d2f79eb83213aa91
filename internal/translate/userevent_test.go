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

func newTestStateWithConfig(meta config.Metadata) *interp.State {
	s := interp.New(&config.Document{Metadata: meta}, [16]byte{0xAB})
	s.ActivateTask(1)
	return s
}

func userEvent(channel, format string, args ...tracerecorder.Parameter) tracerecorder.Event {
	params := []tracerecorder.Parameter{
		{Name: "channel", Str: channel},
		{Name: "format_string", Str: format},
	}
	params = append(params, args...)
	return tracerecorder.Event{Type: tracerecorder.EventUserEvent, Parameters: params}
}

func TestTranslateUserEventWFRPreemptsEverything(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{
		UserEventChannelName: []config.UserEventChannelRule{{Channel: "#WFR", Name: "should-not-win"}},
	})
	ops := Translate(s, userEvent("#WFR", "overflow detected"))
	require.Len(t, ops, 1)
	require.NotNil(t, ops[0].EmitEvent)
	assert.Equal(t, EventWarningFromRecorder, ops[0].EmitEvent.Name)
}

func TestTranslateUserEventChannelNameHighestPriority(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{
		UserEventChannelName:  []config.UserEventChannelRule{{Channel: "comms-tx", Name: "CommsTx"}},
		UserEventFormatString: true,
		UserEventChannel:      true,
	})
	ops := Translate(s, userEvent("comms-tx", "sent %d bytes", tracerecorder.Parameter{Name: "arg0", Int: 12}))
	require.Len(t, ops, 1)
	assert.Equal(t, "CommsTx", ops[0].EmitEvent.Name)
}

func TestTranslateUserEventFormattedStringNameBeatsChannelFlag(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{
		UserEventFormattedStringName: []config.UserEventFormattedStringRule{{FormattedString: "link up", Name: "LinkUp"}},
		UserEventChannel:             true,
	})
	ops := Translate(s, userEvent("comms-tx", "link up"))
	require.Len(t, ops, 1)
	assert.Equal(t, "LinkUp", ops[0].EmitEvent.Name)
}

func TestTranslateUserEventFormatStringChannelsAllowlist(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{
		UserEventFormatStringChannels: []string{"comms-tx"},
	})
	ops := Translate(s, userEvent("comms-tx", "link up"))
	require.Len(t, ops, 1)
	assert.Equal(t, "link up", ops[0].EmitEvent.Name)
}

func TestTranslateUserEventGlobalFormatStringFlag(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{
		UserEventFormatString: true,
	})
	ops := Translate(s, userEvent("other-channel", "link up"))
	require.Len(t, ops, 1)
	assert.Equal(t, "link up", ops[0].EmitEvent.Name)
}

func TestTranslateUserEventGlobalChannelFlagUsesContextSymbol(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{
		UserEventChannel: true,
	})
	require.NoError(t, s.Symtab.Bind(1, symtab.Entry{Class: symtab.ClassTask, Name: "Comms"}))

	ops := Translate(s, userEvent("comms-tx", "sent"))
	require.Len(t, ops, 1)
	assert.Equal(t, "comms-tx @ Comms", ops[0].EmitEvent.Name)
}

func TestTranslateUserEventGlobalChannelFlagFallsBackToStartup(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{UserEventChannel: true})
	// No symbol bound for handle 1: context symbol falls back to "(startup)".
	ops := Translate(s, userEvent("comms-tx", "sent"))
	require.Len(t, ops, 1)
	assert.Equal(t, "comms-tx @ (startup)", ops[0].EmitEvent.Name)
}

func TestTranslateUserEventDefaultsToUserEvent(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{})
	ops := Translate(s, userEvent("misc", "noop"))
	require.Len(t, ops, 1)
	assert.Equal(t, EventUserEvent, ops[0].EmitEvent.Name)
}

func TestTranslateUserEventAlwaysCarriesChannelAndFormattedString(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{})
	ops := Translate(s, userEvent("comms-tx", "value=%d", tracerecorder.Parameter{Int: 9}))
	require.Len(t, ops, 1)

	attrs := ops[0].EmitEvent.Attrs
	channel, ok := attrs.Get(AttrChannel)
	require.True(t, ok)
	assert.Equal(t, "comms-tx", channel.String())

	formatted, ok := attrs.Get(AttrFormattedString)
	require.True(t, ok)
	assert.Equal(t, "value=9", formatted.String())
}

func TestTranslateUserEventFmtArgAttrKeys(t *testing.T) {
	s := newTestStateWithConfig(config.Metadata{
		UserEventFmtArgAttrKeys: []config.UserEventFmtArgAttrKeysRule{
			{Channel: "comms-tx", FormatString: "sent %d bytes on %s", AttributeKeys: []string{"byte_count", "link"}},
		},
	})
	ops := Translate(s, userEvent("comms-tx", "sent %d bytes on %s",
		tracerecorder.Parameter{Int: 42}, tracerecorder.Parameter{Str: "eth0"}))
	require.Len(t, ops, 1)

	attrs := ops[0].EmitEvent.Attrs
	bc, ok := attrs.Get("byte_count")
	require.True(t, ok)
	assert.Equal(t, "42", bc.String())

	link, ok := attrs.Get("link")
	require.True(t, ok)
	assert.Equal(t, "eth0", link.String())
}
