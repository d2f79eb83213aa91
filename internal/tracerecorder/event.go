// SPDX-License-Identifier: GPL-3.0-or-later

// Package tracerecorder states the contract fulfilled by the external event
// source: the already-parsed TraceRecorder event stream plus the one-time
// header. Decoding the on-wire v10/v12–v14 streaming and v6 snapshot formats
// is out of scope for this module (spec.md §1); this package only names the
// shape that a conforming parser hands to the interpreter.
package tracerecorder

// Header is the one-time bundle an [Source] yields before any [Event].
type Header struct {
	// KernelPortName identifies the FreeRTOS port (e.g. "ARM_CM4F").
	KernelPortName string

	// Streaming is true for the streaming protocol family, false for snapshot.
	Streaming bool

	// ProtocolVersion is the TraceRecorder protocol version (10, 12, 13, 14, or
	// 6 for snapshot).
	ProtocolVersion int

	// FrequencyHz is the timer frequency, when known. Zero means unknown, in
	// which case timestamp_ns is never computed.
	FrequencyHz uint64

	// FormatVersion carries recorder format-version flags as reported by the
	// header message.
	FormatVersion uint32

	// CPUUtilMeasurementWindowTicks is the configured CPU-utilization
	// measurement window expressed in raw timer ticks
	// (configured-duration × FrequencyHz).
	CPUUtilMeasurementWindowTicks uint64

	// HeapSize is the initial heap size reported by the header, published as
	// the "heap_size" timeline attribute.
	HeapSize uint64
}

// EventType is the decoded TraceRecorder event tag.
type EventType int

// Event type tags. Only the subset the translator interprets by name is
// enumerated; every other decoded tag still flows through as EventType with
// its raw value, handled as "unknown" per spec.md §4.4.
const (
	EventUnknown EventType = iota
	EventTraceStart
	EventObjectName
	EventTaskCreate
	EventQueueCreate
	EventSemaphoreCreate
	EventMutexCreate
	EventEventGroupCreate
	EventStreamBufferCreate
	EventStatemachineCreate
	EventStatemachineStateCreate
	EventStatemachineStateChange
	EventTaskActivate
	EventTaskSwitchISRBegin
	EventTaskSwitchISRResume
	EventQueueSend
	EventQueueReceive
	EventQueueSendFromISR
	EventQueueReceiveFromISR
	EventTaskNotify
	EventTaskNotifyReceive
	EventUserEvent
	EventCustom
	EventCustomPrintf
	EventMemoryAlloc
	EventMemoryFree
	EventUnusedStack
	EventObjectDelete
)

// Event is one already-parsed TraceRecorder event, as produced by the
// external event source.
type Event struct {
	// ID is the 16-bit object handle this event concerns, or 0 when the
	// event carries no handle (e.g. TRACE_START).
	ID uint16

	// Type is the decoded event tag.
	Type EventType

	// RawType is the recorder's raw numeric event code, used to label
	// synthetic "unknown event" output and to recognise Deviant/custom-printf
	// IDs that fall outside the named [EventType] set.
	RawType uint16

	// EventCount is the raw (possibly 16- or 32-bit, always widened to
	// uint32) event counter as transmitted.
	EventCount uint32

	// TimerTicks is the raw 32-bit timer tick count as transmitted.
	TimerTicks uint32

	// Parameters is the event's payload, already split into parsed
	// parameters by the external parser (e.g. object handles, string table
	// indices, integer arguments).
	Parameters []Parameter
}

// Parameter is one decoded event payload field. Which fields are present,
// and their meaning, depends on [Event.Type]; see the translator for the
// per-event-kind layout.
type Parameter struct {
	// Name is the parser-assigned field name (e.g. "priority", "handle",
	// "channel", "format_string", "arg0").
	Name string

	// Uint is the field's value when it is integral.
	Uint uint64

	// Int is the field's value when it is signed (printf argument, free
	// bytes, etc.).
	Int int64

	// Str is the field's value when it is a string (symbol name, format
	// string, channel name).
	Str string

	// Bytes is the field's value when it is a raw byte payload (unknown
	// event types with include-unknown-events enabled).
	Bytes []byte
}

// Source is the external collaborator that adapts a transport into a lazy,
// finite sequence of [Event] plus the one-time [Header]. This module depends
// only on this interface; a conforming implementation lives outside this
// module's scope (spec.md §1, §4.2).
type Source interface {
	// Header returns the one-time header bundle. It must be called exactly
	// once, before the first call to Next.
	Header() (Header, error)

	// Next returns the next parsed event, or false when the stream has
	// ended (clean EOF) or the source's context was cancelled.
	Next() (Event, bool)

	// Err returns a non-nil error if Next stopped due to a parser or
	// transport failure rather than clean end-of-stream.
	Err() error
}
