// SPDX-License-Identifier: GPL-3.0-or-later

// Package translate implements the event translator from spec.md §4.4: a
// pure function of (interpreter state, one TraceRecorder event) that
// mutates state and returns zero or more sink operations.
package translate

// Reserved event names (spec.md §6).
const (
	EventTraceStart           = "TRACE_START"
	EventWarningFromRecorder  = "WARNING_FROM_RECORDER"
	EventUserEvent            = "USER_EVENT"
	EventTaskActivate         = "TASK_ACTIVATE"
	EventTaskSwitchISRBegin   = "TASK_SWITCH_ISR_BEGIN"
	EventTaskSwitchISRResume  = "TASK_SWITCH_ISR_RESUME"
	EventStatemachineChange   = "STATEMACHINE_STATE_CHANGE"
	EventMemoryAlloc          = "MEMORY_ALLOC"
	EventMemoryFree           = "MEMORY_FREE"
	EventUnusedStack          = "UNUSED_STACK"
	EventCPUUtilizationWindow = "CPU_UTILIZATION_WINDOW"
	EventQueueSend            = "QUEUE_SEND"
	EventQueueReceive         = "QUEUE_RECEIVE"
	EventTaskNotify           = "TASK_NOTIFY"
	EventTaskNotifyReceive    = "TASK_NOTIFY_RECEIVE"

	MutatorAnnounced          = "modality.mutator.announced"
	MutatorRetired            = "modality.mutator.retired"
	MutationCommandCommunicated = "modality.mutation.command_communicated"
	MutationClearCommunicated   = "modality.mutation.clear_communicated"
	MutationTriggered           = "modality.mutation.triggered"
	MutationInjected             = "modality.mutation.injected"
)

// Event-scoped internal attribute keys, under the "event.internal.
// trace_recorder.*" namespace per spec.md §6 ("Sink attribute namespaces");
// §4.5 lists these same keys without the "event." prefix, which we take as
// shorthand for the fully-qualified form used on the wire.
const (
	AttrTimerTicksRaw    = "event.internal.trace_recorder.timer.ticks"
	AttrTimestampTicks   = "event.internal.trace_recorder.timestamp.ticks"
	AttrEventCountRaw    = "event.internal.trace_recorder.event_count.raw"
	AttrEventCount       = "event.internal.trace_recorder.event_count"
	AttrDroppedPreceding = "event.internal.trace_recorder.dropped_preceding_events"
)

// Timeline-scoped internal attribute keys, under the "timeline.internal.
// trace_recorder.*" namespace (spec.md §3, §6).
const (
	AttrObjectHandle = "timeline.internal.trace_recorder.object_handle"
	AttrSymbol       = "timeline.internal.trace_recorder.symbol"
	AttrClass        = "timeline.internal.trace_recorder.class"

	AttrKernelPort         = "timeline.internal.trace_recorder.kernel_port"
	AttrProtocol           = "timeline.internal.trace_recorder.protocol"
	AttrFormatVersion      = "timeline.internal.trace_recorder.format_version"
	AttrTimeResolution     = "timeline.internal.trace_recorder.time_resolution_ns"
	AttrCPUUtilWindowNs    = "timeline.internal.trace_recorder.cpu_utilization_window_ns"
	AttrCPUUtilWindowTicks = "timeline.internal.trace_recorder.cpu_utilization_window_ticks"
)

// Root-level (user-visible) attribute keys (spec.md §3, §4.4).
const (
	AttrTimestamp       = "timestamp"
	AttrTask            = "task"
	AttrPriority        = "priority"
	AttrQueue           = "queue"
	AttrStateMachine    = "state_machine"
	AttrState           = "state"
	AttrChannel         = "channel"
	AttrFormattedString = "formatted_string"
	AttrSize            = "size"
	AttrAddress         = "address"
	AttrHeapCounter     = "heap_counter"
	AttrHeapSize        = "heap_size"
	AttrLowMark         = "low_mark"
	AttrMutatorID       = "mutator_id"
	AttrMutationID      = "mutation_id"
	AttrMutationSuccess = "mutation_success"
	AttrRuntimeWindow   = "runtime_window"
	AttrRuntimeInWindow = "runtime_in_window"
	AttrRuntime         = "runtime"
	AttrTotalRuntime    = "total_runtime"
	AttrCPUUtilization  = "cpu_utilization"
)
