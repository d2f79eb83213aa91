// SPDX-License-Identifier: GPL-3.0-or-later

// Package sink implements the façade the translator emits operations
// into (spec.md §4.7): timeline declaration, event emission with
// ordinal assignment, and interaction edges, transmitted to a
// downstream observability service over HTTP.
package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwtrace/reflector/internal/sinkop"
)

// Sink is the façade the control loop drives with the ops [translate.Translate]
// returns.
type Sink interface {
	// Apply applies op in order: OpenTimeline merges attributes into an
	// existing or new timeline, EmitEvent records an event under the
	// ordinal the translator assigned it, EmitInteraction records an edge
	// between two already-ordinal'd events.
	Apply(ctx context.Context, op sinkop.Op) error

	// Flush delivers any buffered operations downstream.
	Flush(ctx context.Context) error

	// Close flushes and releases the sink's resources.
	Close(ctx context.Context) error
}

// Transmitter is the downstream delivery collaborator a [Buffered] sink
// hands flushed batches to (spec.md §4.7.4): a single HTTP POST per
// flush, or any other encoding a future transmitter might choose.
type Transmitter interface {
	Transmit(ctx context.Context, batch []sinkop.Op) error
}

// Buffered is a [Sink] that accumulates ops in memory and hands them to a
// [Transmitter] on Flush, enforcing the two invariants from spec.md §4.7:
// event ordinals are strictly increasing per timeline, and an interaction
// can only reference an ordinal that has already been applied on its
// timeline (ordinals arrive on the [sinkop.EmitEvent] ops themselves, so
// this reduces to "the source/destination event was already applied").
type Buffered struct {
	mu          sync.Mutex
	transmitter Transmitter
	batch       []sinkop.Op
	lastOrdinal map[sinkop.TimelineID]uint64
}

var _ Sink = (*Buffered)(nil)

// NewBuffered returns a [*Buffered] sink delivering through transmitter.
func NewBuffered(transmitter Transmitter) *Buffered {
	return &Buffered{
		transmitter: transmitter,
		lastOrdinal: make(map[sinkop.TimelineID]uint64),
	}
}

// Apply implements [Sink].
func (b *Buffered) Apply(ctx context.Context, op sinkop.Op) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case op.EmitEvent != nil:
		ev := op.EmitEvent
		if prev := b.lastOrdinal[ev.Timeline]; ev.Ordinal <= prev {
			return fmt.Errorf("sink: non-increasing ordinal %d after %d on timeline %x", ev.Ordinal, prev, ev.Timeline)
		}
		b.lastOrdinal[ev.Timeline] = ev.Ordinal

	case op.EmitInteraction != nil:
		in := op.EmitInteraction
		if in.SrcOrdinal > b.lastOrdinal[in.SrcTimeline] || in.DstOrdinal > b.lastOrdinal[in.DstTimeline] {
			return fmt.Errorf("sink: interaction references an event not yet emitted")
		}
	}

	b.batch = append(b.batch, op)
	return nil
}

// Flush implements [Sink].
func (b *Buffered) Flush(ctx context.Context) error {
	b.mu.Lock()
	batch := b.batch
	b.batch = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return b.transmitter.Transmit(ctx, batch)
}

// Close implements [Sink].
func (b *Buffered) Close(ctx context.Context) error {
	return b.Flush(ctx)
}
