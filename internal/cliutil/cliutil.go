// SPDX-License-Identifier: GPL-3.0-or-later

// Package cliutil holds the flag surface and startup wiring shared by the
// four collector/importer binaries (spec.md §6 CLI): config loading,
// ingest-option overrides, run-id resolution, sink construction, the
// signal-cancelled root context, and the classified, logged process exit. None of this is part of the interpreter core;
// it is the ambient CLI/config/logging layer spec.md §1 calls out as an
// external collaborator, built the way the rest of this module's ambient
// stack is built.
package cliutil

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fwtrace/reflector/internal/config"
	"github.com/fwtrace/reflector/internal/errclass"
	"github.com/fwtrace/reflector/internal/sink"
)

// IngestFlags mirrors the CLI options common to all four binaries
// (spec.md §6): config path, standard ingest options, and run identity.
// Zero-valued fields mean "use the config file's value".
type IngestFlags struct {
	ConfigPath        string
	ProtocolParentURL string
	AllowInsecureTLS  bool
	RunID             string
	TimeDomain        string
}

// BindIngestFlags registers the common flags on cmd, matching the
// MODALITY_REFLECTOR_CONFIG environment-variable fallback for --config.
func BindIngestFlags(cmd *cobra.Command, f *IngestFlags) {
	configDefault := os.Getenv("MODALITY_REFLECTOR_CONFIG")
	cmd.Flags().StringVar(&f.ConfigPath, "config", configDefault, "path to the TOML configuration document")
	cmd.Flags().StringVar(&f.ProtocolParentURL, "protocol-parent-url", "", "override ingest.protocol-parent-url")
	cmd.Flags().BoolVar(&f.AllowInsecureTLS, "allow-insecure-tls", false, "override ingest.allow-insecure-tls")
	cmd.Flags().StringVar(&f.RunID, "run-id", "", "override ingest.run-id")
	cmd.Flags().StringVar(&f.TimeDomain, "time-domain", "", "override ingest.time-domain")
}

// LoadConfig loads the document at f.ConfigPath and applies any non-zero
// flag overrides on top of it, matching the CLI-over-file precedence every
// one of the four binaries shares.
func LoadConfig(f IngestFlags) (*config.Document, error) {
	if f.ConfigPath == "" {
		return nil, fmt.Errorf("cliutil: %w: no --config given and MODALITY_REFLECTOR_CONFIG is unset", errclass.ErrConfig)
	}
	doc, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	if f.ProtocolParentURL != "" {
		doc.Ingest.ProtocolParentURL = f.ProtocolParentURL
	}
	if f.AllowInsecureTLS {
		doc.Ingest.AllowInsecureTLS = true
	}
	if f.RunID != "" {
		doc.Ingest.RunID = f.RunID
	}
	if f.TimeDomain != "" {
		doc.Ingest.TimeDomain = f.TimeDomain
	}
	return doc, nil
}

// ResolveRunID turns the configured run-id string into the 128-bit value
// the interpreter XORs against object handles (spec.md §3 Timeline): a
// hyphenated UUID, a bare 32-hex-digit string, or, if empty, a freshly
// generated UUID logged so the run can be correlated after the fact.
func ResolveRunID(runID string, logger *slog.Logger) ([16]byte, error) {
	var out [16]byte
	switch {
	case runID == "":
		id := uuid.New()
		logger.Info("reflector: generated run-id", "run_id", id.String())
		return id, nil
	case strings.Contains(runID, "-"):
		id, err := uuid.Parse(runID)
		if err != nil {
			return out, fmt.Errorf("cliutil: %w: invalid run-id %q: %w", errclass.ErrConfig, runID, err)
		}
		return id, nil
	default:
		raw, err := hex.DecodeString(runID)
		if err != nil || len(raw) != 16 {
			return out, fmt.Errorf("cliutil: %w: run-id must be a UUID or 32 hex digits, got %q", errclass.ErrConfig, runID)
		}
		copy(out[:], raw)
		return out, nil
	}
}

// NewSink builds the HTTP-backed sink façade for doc.Ingest.
func NewSink(doc *config.Document, logger *slog.Logger) (*sink.Buffered, error) {
	if doc.Ingest.ProtocolParentURL == "" {
		return nil, fmt.Errorf("cliutil: %w: ingest.protocol-parent-url is required", errclass.ErrConfig)
	}
	transmitter, err := sink.NewHTTPTransmitter(doc.Ingest.ProtocolParentURL, doc.Ingest.AllowInsecureTLS, logger)
	if err != nil {
		return nil, err
	}
	return sink.NewBuffered(transmitter), nil
}

// SignalContext returns a context cancelled on SIGINT/SIGTERM, so the
// control loop's single-cancel-drains / second-cancel-aborts semantics
// (spec.md §5) have something to observe; the returned stop func must be
// deferred to release the signal handler.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Exit maps err to the process exit code from spec.md §6 and terminates
// the process, logging the classified error first unless err is nil.
func Exit(err error, logger *slog.Logger) {
	if err != nil {
		logger.Error("reflector: exiting", "class", errclass.New(err), "error", err)
	}
	os.Exit(errclass.ExitCode(err))
}
