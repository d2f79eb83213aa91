// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/symtab"
)

const defaultStartupTaskName = "(startup)"

// OpenStartup declares the system-startup timeline from the header already
// recorded on state via [interp.State.SetHeader] (spec.md §4.2, §4.4
// TRACE_START). It must be called exactly once, before the first call to
// [Translate].
func OpenStartup(state *interp.State) []sinkop.Op {
	name := state.Config.Metadata.StartupTaskName
	if name == "" {
		name = defaultStartupTaskName
	}

	var attrs sinkop.Attrs
	attrs.Set(AttrKernelPort, sinkop.StringAttr(state.Header.KernelPortName))
	attrs.Set(AttrProtocol, sinkop.IntAttr(int64(state.Header.ProtocolVersion)))
	attrs.Set(AttrFormatVersion, sinkop.UintAttr(uint64(state.Header.FormatVersion)))
	if state.Header.FrequencyHz != 0 {
		attrs.Set(AttrTimeResolution, sinkop.UintAttr(1_000_000_000/state.Header.FrequencyHz))
	}
	if state.Header.HeapSize != 0 {
		attrs.Set(AttrHeapSize, sinkop.UintAttr(state.Header.HeapSize))
	}
	if state.Header.CPUUtilMeasurementWindowTicks != 0 {
		attrs.Set(AttrCPUUtilWindowTicks, sinkop.UintAttr(state.Header.CPUUtilMeasurementWindowTicks))
	}

	id, ops, _ := declareTimeline(state, symtab.Unknown, symtab.Entry{Class: symtab.ClassTask, Name: name}, attrs)
	state.StartupTimeline = id
	state.ActivateTask(symtab.Unknown)
	return ops
}
