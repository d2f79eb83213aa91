// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"bufio"
	"context"
	"io"
	"os"
)

const fileChunkSize = 4096

// FileTransport reads a pre-recorded trace stream from disk (spec.md §2
// "importer"). It has no control plane: WriteControl is a no-op.
type FileTransport struct {
	f  *os.File
	r  *bufio.Reader
	at bool
}

var _ Transport = (*FileTransport)(nil)

// OpenFile opens path for reading as a [FileTransport].
func OpenFile(path string) (*FileTransport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileTransport{f: f, r: bufio.NewReaderSize(f, fileChunkSize)}, nil
}

// ReadChunk implements [Transport]. It returns [io.EOF] once the file is
// exhausted.
func (t *FileTransport) ReadChunk(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, fileChunkSize)
	n, err := t.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// WriteControl implements [Transport] as a no-op: a file has no control
// plane to address.
func (t *FileTransport) WriteControl(ctx context.Context, frame []byte) error {
	return nil
}

// Close implements [Transport].
func (t *FileTransport) Close() error {
	return t.f.Close()
}
