// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"context"
	"fmt"

	"github.com/fwtrace/reflector/internal/errclass"
)

// ITMStimulusPort is the external collaborator a debug probe exposes for
// reading one ITM stimulus port's byte stream (spec.md §5.2).
type ITMStimulusPort interface {
	ReadStimulus(ctx context.Context, buf []byte) (int, error)
	WriteStimulus(ctx context.Context, data []byte) (int, error)
}

// ITMTransport streams trace events out of an ITM stimulus port behind a
// debug probe (spec.md §5.2 itm-collector). Opening the probe session is
// the caller's responsibility via [Probe.Attach] before constructing this
// transport.
type ITMTransport struct {
	probe Probe
	port  ITMStimulusPort
}

var _ Transport = (*ITMTransport)(nil)

// NewITMTransport wraps an already-attached probe and stimulus port.
func NewITMTransport(probe Probe, port ITMStimulusPort) *ITMTransport {
	return &ITMTransport{probe: probe, port: port}
}

// ReadChunk implements [Transport].
func (t *ITMTransport) ReadChunk(ctx context.Context) ([]byte, error) {
	buf := make([]byte, fileChunkSize)
	n, err := t.port.ReadStimulus(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("itm: %w: %w", errclass.ErrProbeAttachFailed, err)
	}
	return buf[:n], nil
}

// WriteControl implements [Transport]: the control-plane frame is written
// back over the same stimulus port (spec.md §5.2).
func (t *ITMTransport) WriteControl(ctx context.Context, frame []byte) error {
	_, err := t.port.WriteStimulus(ctx, frame)
	return err
}

// Close implements [Transport] by detaching the probe session.
func (t *ITMTransport) Close() error {
	return t.probe.Detach(context.Background())
}
