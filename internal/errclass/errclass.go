//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/errclass.go
//

// Package errclass classifies adapter errors into the short labels used for
// structured logging and for selecting a process exit code.
//
// Unlike a socket-errno classifier, this package's labels are the ones
// named in the error taxonomy: connect-failed, probe-attach-failed,
// rtt-no-control-block, io-eof, io-error, config-error, sink-error.
package errclass

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

// Sentinel errors. Components wrap the underlying cause with one of these
// using fmt.Errorf("...: %w", errclass.ErrConnectFailed) so that Classify
// can recover the taxonomy label with errors.Is regardless of how deep the
// cause is nested.
var (
	// ErrConnectFailed marks a transport connect/dial failure.
	ErrConnectFailed = errors.New("connect-failed")

	// ErrProbeAttachFailed marks a debug-probe attach failure.
	ErrProbeAttachFailed = errors.New("probe-attach-failed")

	// ErrRTTNoControlBlock marks RTT control-block discovery exhausting its
	// attach timeout without finding a block.
	ErrRTTNoControlBlock = errors.New("rtt-no-control-block")

	// ErrConfig marks a configuration error (unknown key, conflicting
	// options, invalid URL/address).
	ErrConfig = errors.New("config-error")

	// ErrSink marks a terminal sink failure (ingest rejected, disconnected).
	ErrSink = errors.New("sink-error")
)

// New classifies err into one of the taxonomy labels, or "" if err is nil.
//
// This is the adapter-specific counterpart of a socket errno classifier:
// instead of returning raw errno names, it returns the label from the error
// taxonomy that callers use for logging and exit-code selection.
func New(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnectFailed):
		return "connect-failed"
	case errors.Is(err, ErrProbeAttachFailed):
		return "probe-attach-failed"
	case errors.Is(err, ErrRTTNoControlBlock):
		return "rtt-no-control-block"
	case errors.Is(err, ErrConfig):
		return "config-error"
	case errors.Is(err, ErrSink):
		return "sink-error"
	case errors.Is(err, io.EOF):
		return "io-eof"
	case isConnectErrno(err):
		return "connect-failed"
	default:
		return "io-error"
	}
}

// isConnectErrno reports whether err is a platform errno that indicates a
// connection could never be established, as opposed to a mid-stream I/O
// failure. It walks through [*net.OpError] and [*os.SyscallError] wrapping,
// matching the platform-specific constants in unix.go/windows.go.
func isConnectErrno(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		return matchesConnectErrno(sysErr.Err)
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return matchesConnectErrno(errno)
	}
	return false
}

func matchesConnectErrno(err error) bool {
	switch err {
	case errECONNREFUSED, errECONNRESET, errECONNABORTED,
		errEHOSTUNREACH, errENETDOWN, errENETUNREACH,
		errETIMEDOUT, errEADDRNOTAVAIL, errEADDRINUSE:
		return true
	default:
		return false
	}
}

// ExitCode maps a terminal error to the process exit code from spec.md §6:
// 0 clean, 1 transport/I/O, 2 configuration, 130 cancelled.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, ErrConfig):
		return 2
	default:
		return 1
	}
}
