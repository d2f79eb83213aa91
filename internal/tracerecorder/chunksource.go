// SPDX-License-Identifier: GPL-3.0-or-later

package tracerecorder

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Decoder turns raw transport bytes into the parsed-event contract this
// module depends on: the one-time header, then a finite sequence of
// [Event] values. Decoding the actual v10/v12–v14 streaming or v6 snapshot
// wire formats is out of this module's scope (spec.md §1, §6); a conforming
// implementation is supplied by the embedding program.
type Decoder interface {
	// DecodeHeader consumes bytes from the front of the stream and returns
	// the header plus the number of bytes consumed.
	DecodeHeader(chunk []byte) (hdr Header, consumed int, err error)

	// DecodeEvents decodes as many complete events as chunk holds, and
	// returns the number of bytes consumed; a short trailing fragment is
	// left unconsumed for the next chunk to complete.
	DecodeEvents(chunk []byte) (events []Event, consumed int, err error)
}

// ChunkReader is the subset of [transport.Transport] a [ChunkSource] reads
// from; it is spelled out independently here so this package does not
// import internal/transport.
type ChunkReader interface {
	ReadChunk(ctx context.Context) ([]byte, error)
}

// ChunkSource implements [Source] over a [ChunkReader] and a [Decoder],
// running the transport read as a single producer goroutine feeding a
// buffered channel the translator drains as the sole consumer — the
// single-producer/single-consumer queue from spec.md §5 that preserves
// delivery order and lets the reader suspend on I/O independently of the
// translator's pace.
type ChunkSource struct {
	ctx     context.Context
	reader  ChunkReader
	decoder Decoder

	start   sync.Once
	pending []byte
	events  chan Event
	err     error
}

// NewChunkSource returns a [Source] over reader and decoder. The background
// reader goroutine starts lazily, on the first [ChunkSource.Next] call, so
// that the mandatory [ChunkSource.Header] call is guaranteed to see the
// stream's first bytes before the pump begins consuming them.
func NewChunkSource(ctx context.Context, reader ChunkReader, decoder Decoder, queueDepth int) *ChunkSource {
	if queueDepth <= 0 {
		queueDepth = 256
	}
	return &ChunkSource{
		ctx:     ctx,
		reader:  reader,
		decoder: decoder,
		events:  make(chan Event, queueDepth),
	}
}

// drain decodes as many complete events as pending holds, pushing each to
// the events channel, and returns the undecoded remainder.
func (s *ChunkSource) drain(ctx context.Context, pending []byte) ([]byte, bool) {
	for {
		evs, consumed, err := s.decoder.DecodeEvents(pending)
		if err != nil {
			s.err = fmt.Errorf("tracerecorder: decode: %w", err)
			return nil, false
		}
		for _, ev := range evs {
			select {
			case s.events <- ev:
			case <-ctx.Done():
				return nil, false
			}
		}
		pending = pending[consumed:]
		if consumed == 0 {
			return pending, true
		}
	}
}

func (s *ChunkSource) pump(ctx context.Context, pending []byte) {
	defer close(s.events)

	var ok bool
	if pending, ok = s.drain(ctx, pending); !ok {
		return
	}
	for {
		chunk, err := s.reader.ReadChunk(ctx)
		if err != nil {
			if err != io.EOF {
				s.err = fmt.Errorf("tracerecorder: read chunk: %w", err)
			}
			return
		}
		pending = append(pending, chunk...)
		if pending, ok = s.drain(ctx, pending); !ok {
			return
		}
	}
}

// Header implements [Source]: it reads and decodes the stream's first
// chunk, keeping any trailing bytes for the lazily started pump to decode
// as ordinary events.
func (s *ChunkSource) Header() (Header, error) {
	chunk, err := s.reader.ReadChunk(s.ctx)
	if err != nil && err != io.EOF {
		return Header{}, fmt.Errorf("tracerecorder: read header: %w", err)
	}
	hdr, consumed, err := s.decoder.DecodeHeader(chunk)
	if err != nil {
		return Header{}, fmt.Errorf("tracerecorder: decode header: %w", err)
	}
	s.pending = append(s.pending, chunk[consumed:]...)
	return hdr, nil
}

// UnimplementedDecoder marks the wire-decoding seam spec.md §1 calls out as
// an external collaborator: the four collector/importer binaries wire a
// [ChunkSource] against this placeholder until a real v10/v12–v14
// streaming or v6 snapshot decoder is linked in its place.
type UnimplementedDecoder struct{}

var errNoDecoder = fmt.Errorf("tracerecorder: no wire-format decoder configured")

func (UnimplementedDecoder) DecodeHeader(chunk []byte) (Header, int, error) {
	return Header{}, 0, errNoDecoder
}

func (UnimplementedDecoder) DecodeEvents(chunk []byte) ([]Event, int, error) {
	return nil, 0, errNoDecoder
}

// Next implements [Source].
func (s *ChunkSource) Next() (Event, bool) {
	s.start.Do(func() { go s.pump(s.ctx, s.pending) })
	ev, ok := <-s.events
	return ev, ok
}

// Err implements [Source].
func (s *ChunkSource) Err() error {
	return s.err
}
