// SPDX-License-Identifier: GPL-3.0-or-later

// Package control runs the adapter's main loop (spec.md §4.1, §4.2): open
// the transport's control plane, declare the startup timeline from the
// event source's header, translate events one at a time into sink
// operations, and shut down cleanly on cancellation or end of stream.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fwtrace/reflector/internal/config"
	"github.com/fwtrace/reflector/internal/errclass"
	"github.com/fwtrace/reflector/internal/interp"
	"github.com/fwtrace/reflector/internal/sink"
	"github.com/fwtrace/reflector/internal/sinkop"
	"github.com/fwtrace/reflector/internal/tracerecorder"
	"github.com/fwtrace/reflector/internal/transport"
	"github.com/fwtrace/reflector/internal/translate"
)

// FlushInterval is, by default, how many translated events accumulate
// before the sink is asked to flush; the loop also flushes once more at
// shutdown regardless of this count.
const FlushInterval = 64

// Options configures one run of the adapter loop.
type Options struct {
	Doc    *config.Document
	RunID  [16]byte
	Source tracerecorder.Source
	Sink   sink.Sink

	// Transport is used only for the control plane (CMD_SET_ACTIVE);
	// reading trace bytes is Source's job, since decoding the wire format
	// into [tracerecorder.Event] values is out of this module's scope.
	Transport transport.Transport

	Logger *slog.Logger
}

// Run drives one adapter session to completion: it returns nil on a clean
// end of stream, ctx.Err() after a final flush on context cancellation, and
// a non-nil error on transport, parser, or sink failure (spec.md §4.1).
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := transport.EncodeSetActive(true)
	if err := opts.Transport.WriteControl(ctx, start[:]); err != nil {
		return fmt.Errorf("control: %w: %w", errclass.ErrConnectFailed, err)
	}
	defer func() {
		stop := transport.EncodeSetActive(false)
		if err := opts.Transport.WriteControl(context.Background(), stop[:]); err != nil {
			logger.Warn("control: failed to send stop", "error", err)
		}
	}()

	hdr, err := opts.Source.Header()
	if err != nil {
		return fmt.Errorf("control: %w: %w", errclass.ErrSink, err)
	}

	state := interp.New(opts.Doc, opts.RunID)
	state.SetHeader(hdr)

	if err := applyAll(ctx, opts.Sink, translate.OpenStartup(state)); err != nil {
		return err
	}

	pending := 0
	for {
		select {
		case <-ctx.Done():
			// Drain what the translator already produced, then report the
			// cancellation itself (spec.md §5, §6 exit code 130) rather than
			// masking it behind a clean nil return.
			if err := flushFinal(context.WithoutCancel(ctx), opts.Sink); err != nil {
				return err
			}
			return ctx.Err()
		default:
		}

		ev, ok := opts.Source.Next()
		if !ok {
			if err := opts.Source.Err(); err != nil {
				return errors.Join(fmt.Errorf("control: %w: %w", errclass.ErrSink, err), flushFinal(ctx, opts.Sink))
			}
			return flushFinal(ctx, opts.Sink)
		}

		ops := translate.Translate(state, ev)
		if err := applyAll(ctx, opts.Sink, ops); err != nil {
			return err
		}

		pending++
		if pending >= FlushInterval {
			pending = 0
			if err := opts.Sink.Flush(ctx); err != nil {
				return fmt.Errorf("control: %w: %w", errclass.ErrSink, err)
			}
		}
	}
}

func applyAll(ctx context.Context, s sink.Sink, ops []sinkop.Op) error {
	for _, op := range ops {
		if err := s.Apply(ctx, op); err != nil {
			return fmt.Errorf("control: %w: %w", errclass.ErrSink, err)
		}
	}
	return nil
}

func flushFinal(ctx context.Context, s sink.Sink) error {
	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("control: %w: %w", errclass.ErrSink, err)
	}
	return nil
}
