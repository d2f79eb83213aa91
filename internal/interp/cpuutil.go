// SPDX-License-Identifier: GPL-3.0-or-later

package interp

import "github.com/fwtrace/reflector/internal/symtab"

// ClosedWindow is a snapshot of a [CPUWindow] at the moment it closed,
// ready to be rendered as the attributes from spec.md §4.6.
type ClosedWindow struct {
	RuntimeWindowTicks   uint64
	RuntimeInWindowTicks uint64
	TotalRuntimeTicks    uint64
	CPUUtilization       float64
}

// AccumulateRuntime advances handle's CPU-utilization window by the elapsed
// ticks since its last recorded tick, opening the window on first use. It
// returns the closed window once elapsed wall time reaches windowTicks,
// resetting the window per spec.md §4.6; ok is false while the window is
// still open.
func (s *State) AccumulateRuntime(handle symtab.Handle, nowTick uint64, windowTicks uint64) (ClosedWindow, bool) {
	w, ok := s.CPUWindows[handle]
	if !ok {
		w = &CPUWindow{WindowStartTick: nowTick, LastTick: nowTick}
		s.CPUWindows[handle] = w
		return ClosedWindow{}, false
	}

	if nowTick > w.LastTick {
		elapsed := nowTick - w.LastTick
		w.RuntimeInWindow += elapsed
		w.TotalRuntime += elapsed
	}
	w.LastTick = nowTick

	if windowTicks == 0 || nowTick-w.WindowStartTick < windowTicks {
		return ClosedWindow{}, false
	}

	elapsedWindow := nowTick - w.WindowStartTick
	var util float64
	if elapsedWindow > 0 {
		util = float64(w.RuntimeInWindow) / float64(elapsedWindow)
	}
	closed := ClosedWindow{
		RuntimeWindowTicks:   elapsedWindow,
		RuntimeInWindowTicks: w.RuntimeInWindow,
		TotalRuntimeTicks:    w.TotalRuntime,
		CPUUtilization:       util,
	}

	w.RuntimeInWindow = 0
	w.WindowStartTick = nowTick
	return closed, true
}
