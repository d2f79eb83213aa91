// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/fwtrace/reflector/internal/errclass"
)

// TCPTransport streams trace events over a TCP socket (spec.md §5.1
// tcp-collector). Dialing logs a connectStart/connectDone span pair, the
// same shape every network-facing component in this module uses for its
// suspension points.
type TCPTransport struct {
	logger *slog.Logger

	addr netip.AddrPort
	conn net.Conn
}

var _ Transport = (*TCPTransport)(nil)

// DialTCP connects to addr and returns a ready-to-read [TCPTransport]. The
// returned transport's lifetime is bound to ctx: cancelling ctx closes the
// connection (spec.md §5.1 restart handling relies on this to unblock a
// pending read before reconnecting).
func DialTCP(ctx context.Context, addr netip.AddrPort, logger *slog.Logger) (*TCPTransport, error) {
	t := &TCPTransport{logger: logger, addr: addr}
	if err := t.dial(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TCPTransport) dial(ctx context.Context) error {
	t0 := time.Now()
	deadline, _ := ctx.Deadline()
	t.logger.Info("connectStart",
		slog.Time("deadline", deadline),
		slog.String("protocol", "tcp"),
		slog.String("remoteAddr", t.addr.String()),
		slog.Time("t", t0),
	)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.addr.String())

	t.logger.Info("connectDone",
		slog.Any("err", err),
		slog.String("errClass", errclass.New(err)),
		slog.String("protocol", "tcp"),
		slog.String("remoteAddr", t.addr.String()),
		slog.Time("t0", t0),
		slog.Time("t", time.Now()),
	)
	if err != nil {
		return err
	}

	// Closing the connection from a watcher goroutine lets a blocked Read
	// unblock as soon as ctx is cancelled, matching the cancel-watch
	// behavior the rest of this module's network paths rely on.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()
	t.conn = &cancelOnContextConn{Conn: conn, stop: stop}
	return nil
}

// cancelOnContextConn closes stop once, so the watcher goroutine started
// in dial exits when the connection is closed for reasons other than
// context cancellation (e.g. [TCPTransport.Close]).
type cancelOnContextConn struct {
	net.Conn
	stop     chan struct{}
	stopOnce bool
}

func (c *cancelOnContextConn) Close() error {
	if !c.stopOnce {
		c.stopOnce = true
		close(c.stop)
	}
	return c.Conn.Close()
}

// ReadChunk implements [Transport].
func (t *TCPTransport) ReadChunk(ctx context.Context) ([]byte, error) {
	buf := make([]byte, fileChunkSize)
	n, err := t.conn.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	return nil, err
}

// WriteControl implements [Transport]: the control-plane frame is written
// in-band on the same socket, per spec.md §5.1.
func (t *TCPTransport) WriteControl(ctx context.Context, frame []byte) error {
	_, err := t.conn.Write(frame)
	return err
}

// Close implements [Transport].
func (t *TCPTransport) Close() error {
	return t.conn.Close()
}

// Restart closes the current connection and redials addr, used when the
// collector observes the firmware side reset the connection mid-stream
// (spec.md §5.1): the caller is expected to re-send CMD_SET_ACTIVE(true)
// once Restart returns.
func (t *TCPTransport) Restart(ctx context.Context) error {
	t.conn.Close()
	return t.dial(ctx)
}
