// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/fwtrace/reflector/internal/errclass"
)

// RTTChannel is the external collaborator a debug probe exposes for one
// discovered RTT up/down channel pair (spec.md §5.3).
type RTTChannel interface {
	ReadUp(ctx context.Context, buf []byte) (int, error)
	WriteDown(ctx context.Context, data []byte) (int, error)
}

// RTTControlBlockFinder discovers the RTT control block in target memory,
// a probe-specific operation outside this module's scope (spec.md §5.3).
type RTTControlBlockFinder interface {
	FindControlBlock(ctx context.Context) (RTTChannel, error)
}

// RTTTransport streams trace events out of an RTT channel behind a debug
// probe (spec.md §5.3 rtt-collector), polling the up channel at a fixed
// interval since RTT has no blocking read primitive.
type RTTTransport struct {
	probe        Probe
	channel      RTTChannel
	pollInterval time.Duration
}

var _ Transport = (*RTTTransport)(nil)

// DefaultRTTPollInterval is used when the caller does not override it.
const DefaultRTTPollInterval = 10 * time.Millisecond

// OpenRTT attaches probe, discovers the control block via finder, and
// returns a ready [RTTTransport] polling at pollInterval (or
// [DefaultRTTPollInterval] if zero).
func OpenRTT(ctx context.Context, probe Probe, finder RTTControlBlockFinder, pollInterval time.Duration) (*RTTTransport, error) {
	if pollInterval == 0 {
		pollInterval = DefaultRTTPollInterval
	}
	if err := probe.Attach(ctx); err != nil {
		return nil, fmt.Errorf("rtt: %w: %w", errclass.ErrProbeAttachFailed, err)
	}
	channel, err := finder.FindControlBlock(ctx)
	if err != nil {
		probe.Detach(ctx)
		return nil, fmt.Errorf("rtt: %w: %w", errclass.ErrRTTNoControlBlock, err)
	}
	return &RTTTransport{probe: probe, channel: channel, pollInterval: pollInterval}, nil
}

// ReadChunk implements [Transport], polling until data is available or ctx
// is done.
func (t *RTTTransport) ReadChunk(ctx context.Context) ([]byte, error) {
	buf := make([]byte, fileChunkSize)
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()
	for {
		n, err := t.channel.ReadUp(ctx, buf)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return buf[:n], nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// WriteControl implements [Transport].
func (t *RTTTransport) WriteControl(ctx context.Context, frame []byte) error {
	_, err := t.channel.WriteDown(ctx, frame)
	return err
}

// Close implements [Transport] by detaching the probe session.
func (t *RTTTransport) Close() error {
	return t.probe.Detach(context.Background())
}
