// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"fmt"
	"log/slog"

	"github.com/fwtrace/reflector/internal/config"
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// wfrChannel is the recorder's well-known warning channel: a USER_EVENT on
// this channel is always reported as WARNING_FROM_RECORDER regardless of
// any routing table, and logged (spec.md §4.4, §9 boundary cases).
const wfrChannel = "#WFR"

func translateUserEvent(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	id := state.TimelineFor(ctx.Handle)
	meta := state.Config.Metadata

	channel := paramStr(ev, "channel")
	format := paramStr(ev, "format_string")
	args := userEventArgs(ev)
	formatted := formatPrintf(format, args)

	// Name overrides apply in the priority order from spec.md §4.4: a
	// channel-name rule beats a formatted-string-name rule beats the
	// format-string-channels allowlist beats the global format-string
	// flag beats the global channel flag. #WFR pre-empts all of it.
	name := EventUserEvent
	switch {
	case channel == wfrChannel:
		name = EventWarningFromRecorder
		slog.Warn("trace_recorder: warning from recorder", "message", formatted)
	case matchChannelName(meta.UserEventChannelName, channel) != "":
		name = matchChannelName(meta.UserEventChannelName, channel)
	case matchFormattedStringName(meta.UserEventFormattedStringName, formatted) != "":
		name = matchFormattedStringName(meta.UserEventFormattedStringName, formatted)
	case channelInList(meta.UserEventFormatStringChannels, channel):
		name = formatted
	case meta.UserEventFormatString:
		name = formatted
	case meta.UserEventChannel:
		name = channel + " @ " + contextSymbol(state, ctx)
	}

	attrs := f.baseAttrs()
	attrs.Set(AttrChannel, sinkop.StringAttr(channel))
	attrs.Set(AttrFormattedString, sinkop.StringAttr(formatted))

	keys := matchFmtArgAttrKeys(meta.UserEventFmtArgAttrKeys, channel, format)
	for i, arg := range args {
		key := fmt.Sprintf("arg%d", i)
		if i < len(keys) && keys[i] != "" {
			key = keys[i]
		}
		attrs.Set(key, paramAttr(arg))
	}

	return []sinkop.Op{emit(state, id, name, attrs)}
}

// userEventArgs returns the positional printf arguments, i.e. every
// parameter other than "channel" and "format_string".
func userEventArgs(ev tracerecorder.Event) []tracerecorder.Parameter {
	var args []tracerecorder.Parameter
	for _, p := range ev.Parameters {
		if p.Name == "channel" || p.Name == "format_string" {
			continue
		}
		args = append(args, p)
	}
	return args
}

func paramAttr(p tracerecorder.Parameter) sinkop.AttrValue {
	if p.Str != "" {
		return sinkop.StringAttr(p.Str)
	}
	if p.Int != 0 {
		return sinkop.IntAttr(p.Int)
	}
	return sinkop.UintAttr(p.Uint)
}

func matchChannelName(rules []config.UserEventChannelRule, channel string) string {
	for _, r := range rules {
		if r.Channel == channel {
			return r.Name
		}
	}
	return ""
}

func matchFormattedStringName(rules []config.UserEventFormattedStringRule, formatted string) string {
	for _, r := range rules {
		if r.FormattedString == formatted {
			return r.Name
		}
	}
	return ""
}

func matchFmtArgAttrKeys(rules []config.UserEventFmtArgAttrKeysRule, channel, format string) []string {
	for _, r := range rules {
		if r.Channel == channel && r.FormatString == format {
			return r.AttributeKeys
		}
	}
	return nil
}

// channelInList reports whether channel appears in list.
func channelInList(list []string, channel string) bool {
	for _, c := range list {
		if c == channel {
			return true
		}
	}
	return false
}

// contextSymbol returns the current context's symbol, for the
// "channel @ context" naming convention used when the user-event-channel
// flag selects the event name (spec.md §8 S2).
func contextSymbol(state *interp.State, ctx interp.Context) string {
	if name := state.Symtab.Symbol(ctx.Handle); name != "" {
		return name
	}
	return "(startup)"
}
