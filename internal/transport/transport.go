// SPDX-License-Identifier: GPL-3.0-or-later

// Package transport abstracts the four ways a trace stream reaches this
// adapter (spec.md §2, §5): a pre-recorded file, a TCP socket, an ITM
// stimulus port behind a debug probe, and an RTT channel behind a debug
// probe. All four expose the same read/control/lifecycle surface so
// internal/control can drive any of them identically.
package transport

import "context"

// Transport is the collaborator a collector binary opens once and reads
// from until the trace ends or the context is cancelled.
type Transport interface {
	// ReadChunk returns the next chunk of raw trace bytes, or an error. It
	// returns io.EOF when the underlying source has cleanly ended (the file
	// is exhausted, or the TCP peer closed the connection); otherwise live
	// transports block until data arrives.
	ReadChunk(ctx context.Context) ([]byte, error)

	// WriteControl sends a control-plane frame (spec.md §5.1), such as
	// CMD_SET_ACTIVE, to the firmware side. Transports that have no
	// control channel (file) implement it as a no-op returning nil.
	WriteControl(ctx context.Context, frame []byte) error

	// Close releases the transport's resources. Safe to call once the
	// transport is no longer in use; further reads return an error.
	Close() error
}

// Probe is the external debug-probe collaborator that ITM and RTT
// transports dial through (spec.md §5.2, §5.3): attaching, detaching, and
// discovering the RTT control block are probe-specific operations this
// module does not implement itself.
type Probe interface {
	// Attach opens a session with the target over the debug probe.
	Attach(ctx context.Context) error

	// Detach closes the probe session. Safe to call even if Attach failed.
	Detach(ctx context.Context) error
}
