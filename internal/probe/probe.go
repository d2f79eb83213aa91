// SPDX-License-Identifier: GPL-3.0-or-later

// Package probe holds the debug-probe selection options named in spec.md
// §6 (selector, chip, protocol, speed, core index, reset; ITM and RTT
// sub-options) and the placeholder collaborators the itm-collector and
// rtt-collector binaries wire against. Driving an actual probe — attach,
// memory read/write, RTT control-block discovery, ELF symbol resolution —
// is explicitly out of scope for this module (spec.md §1); a real build
// links a probe driver package in place of [Unimplemented].
package probe

import (
	"context"
	"fmt"

	"github.com/fwtrace/reflector/internal/errclass"
	"github.com/fwtrace/reflector/internal/transport"
)

// Options collects the probe-selection flags shared by the ITM and RTT
// collectors (spec.md §6).
type Options struct {
	Selector   string
	Chip       string
	Protocol   string // "swd" or "jtag"
	SpeedKHz   int
	CoreIndex  int
	Reset      bool
	UnderReset bool
}

var errNoProbeDriver = fmt.Errorf("probe: %w: no debug-probe driver linked", errclass.ErrProbeAttachFailed)

// Unimplemented marks the debug-probe driver seam: it satisfies
// [transport.Probe], but Attach always fails (Detach is a no-op) until a
// real driver replaces it.
type Unimplemented struct {
	Options Options
}

func (Unimplemented) Attach(ctx context.Context) error { return errNoProbeDriver }
func (Unimplemented) Detach(ctx context.Context) error { return nil }

// UnimplementedITMPort marks the ITM-stimulus-port seam (spec.md §5.2).
type UnimplementedITMPort struct{}

func (UnimplementedITMPort) ReadStimulus(ctx context.Context, buf []byte) (int, error) {
	return 0, errNoProbeDriver
}

func (UnimplementedITMPort) WriteStimulus(ctx context.Context, data []byte) (int, error) {
	return 0, errNoProbeDriver
}

// UnimplementedRTTFinder marks the RTT-control-block-discovery seam
// (spec.md §5.3).
type UnimplementedRTTFinder struct {
	ElfFile           string
	ControlBlockAddr  uint64
	SetupOnBreakpoint string
}

func (UnimplementedRTTFinder) FindControlBlock(ctx context.Context) (transport.RTTChannel, error) {
	return nil, errNoProbeDriver
}

var (
	_ transport.Probe                 = Unimplemented{}
	_ transport.ITMStimulusPort       = UnimplementedITMPort{}
	_ transport.RTTControlBlockFinder = UnimplementedRTTFinder{}
)
