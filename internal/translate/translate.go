// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"log/slog"

	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// Translate is the pure-over-state function from spec.md §4.4: given the
// interpreter state and one already-parsed TraceRecorder event, it mutates
// state and returns zero or more ordered sink operations. Call
// [OpenStartup] once before the first call.
func Translate(state *interp.State, ev tracerecorder.Event) []sinkop.Op {
	f := newFrame(state, ev)

	if offset, ok := deviantOffset(state, ev); ok {
		return translateDeviant(state, ev, f, offset)
	}
	if isCustomPrintf(state, ev) {
		return translateCustomPrintf(state, ev, f)
	}

	switch ev.Type {
	case tracerecorder.EventTraceStart:
		return nil // the header is consumed once via OpenStartup, not as an Event.

	case tracerecorder.EventObjectName:
		return translateCreate(state, ev, symtab.ClassUnknown)
	case tracerecorder.EventTaskCreate:
		return translateCreate(state, ev, symtab.ClassTask)
	case tracerecorder.EventQueueCreate:
		return translateCreate(state, ev, symtab.ClassQueue)
	case tracerecorder.EventSemaphoreCreate:
		return translateCreate(state, ev, symtab.ClassSemaphore)
	case tracerecorder.EventMutexCreate:
		return translateCreate(state, ev, symtab.ClassMutex)
	case tracerecorder.EventEventGroupCreate:
		return translateCreate(state, ev, symtab.ClassEventGroup)
	case tracerecorder.EventStreamBufferCreate:
		return translateCreate(state, ev, symtab.ClassStreamBuffer)
	case tracerecorder.EventStatemachineCreate:
		return translateCreate(state, ev, symtab.ClassStateMachine)
	case tracerecorder.EventStatemachineStateCreate:
		return translateCreate(state, ev, symtab.ClassStateMachineState)
	case tracerecorder.EventStatemachineStateChange:
		return translateStatemachineStateChange(state, ev, f)
	case tracerecorder.EventObjectDelete:
		return translateObjectDelete(state, ev)

	case tracerecorder.EventTaskActivate:
		return translateTaskActivate(state, ev, f)
	case tracerecorder.EventTaskSwitchISRBegin:
		return translateISRBegin(state, ev, f)
	case tracerecorder.EventTaskSwitchISRResume:
		return translateISRResume(state, ev, f)

	case tracerecorder.EventQueueSend:
		return translateQueueOp(state, ev, f, EventQueueSend, true)
	case tracerecorder.EventQueueSendFromISR:
		return translateQueueOp(state, ev, f, EventQueueSend, true)
	case tracerecorder.EventQueueReceive:
		return translateQueueOp(state, ev, f, EventQueueReceive, false)
	case tracerecorder.EventQueueReceiveFromISR:
		return translateQueueOp(state, ev, f, EventQueueReceive, false)

	case tracerecorder.EventTaskNotify:
		return translateTaskNotify(state, ev, f, true)
	case tracerecorder.EventTaskNotifyReceive:
		return translateTaskNotify(state, ev, f, false)

	case tracerecorder.EventUserEvent:
		return translateUserEvent(state, ev, f)
	case tracerecorder.EventCustom:
		return translateCustomEvent(state, ev, f)
	case tracerecorder.EventCustomPrintf:
		return translateCustomPrintf(state, ev, f)

	case tracerecorder.EventMemoryAlloc:
		return translateMemory(state, ev, f, EventMemoryAlloc)
	case tracerecorder.EventMemoryFree:
		return translateMemory(state, ev, f, EventMemoryFree)
	case tracerecorder.EventUnusedStack:
		return translateUnusedStack(state, ev, f)

	default:
		return translateUnknown(state, ev, f)
	}
}

// deviantOffset reports whether ev's raw event code falls in the
// deviant-event-id-base..+5 range configured for the run.
func deviantOffset(state *interp.State, ev tracerecorder.Event) (int, bool) {
	base := state.Config.Metadata.DeviantEventIDBase
	if base == nil {
		return 0, false
	}
	offset := int(ev.RawType) - int(*base)
	if offset < 0 || offset > 5 {
		return 0, false
	}
	return offset, true
}

func isCustomPrintf(state *interp.State, ev tracerecorder.Event) bool {
	id := state.Config.Metadata.CustomPrintfEventID
	return id != nil && ev.RawType == *id
}

// translateCustomEvent handles a recorder-defined custom event that is
// neither Deviant-mapped nor the configured custom-printf event: it is
// reported the same way as an unrecognised event (spec.md §4.4).
func translateCustomEvent(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	return translateUnknown(state, ev, f)
}

// translateUnknown reports an event the translator does not interpret by
// name. When include-unknown-events is off, it is silently dropped.
func translateUnknown(state *interp.State, ev tracerecorder.Event, f frame) []sinkop.Op {
	if !state.Config.Metadata.IncludeUnknownEvents {
		slog.Debug("trace_recorder: dropping unknown event", "raw_type", ev.RawType)
		return nil
	}
	ctx, ok := state.CurrentContext()
	if !ok {
		return nil
	}
	id := state.TimelineFor(ctx.Handle)

	attrs := f.baseAttrs()
	attrs.Set("raw_type", sinkop.UintAttr(uint64(ev.RawType)))
	return []sinkop.Op{emit(state, id, "UNKNOWN_EVENT", attrs)}
}
