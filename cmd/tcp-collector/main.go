// SPDX-License-Identifier: GPL-3.0-or-later

// Command tcp-collector streams a live TraceRecorder session over a TCP
// socket (spec.md §2, §5.1).
package main

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"

	"github.com/spf13/cobra"

	"github.com/fwtrace/reflector/internal/cliutil"
	"github.com/fwtrace/reflector/internal/control"
	"github.com/fwtrace/reflector/internal/errclass"
	"github.com/fwtrace/reflector/internal/tracerecorder"
	"github.com/fwtrace/reflector/internal/transport"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var flags cliutil.IngestFlags
	var remoteAddr string

	cmd := &cobra.Command{
		Use:          "tcp-collector",
		Short:        "Stream a TraceRecorder session from a TCP socket into the sink",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags, remoteAddr, logger)
		},
	}
	cliutil.BindIngestFlags(cmd, &flags)
	cmd.Flags().StringVar(&remoteAddr, "remote-address", "", "host:port of the target's TraceRecorder TCP server")
	cmd.MarkFlagRequired("remote-address")

	cliutil.Exit(cmd.Execute(), logger)
}

func run(flags cliutil.IngestFlags, remoteAddr string, logger *slog.Logger) error {
	doc, err := cliutil.LoadConfig(flags)
	if err != nil {
		return err
	}

	runID, err := cliutil.ResolveRunID(doc.Ingest.RunID, logger)
	if err != nil {
		return err
	}

	addr, err := netip.ParseAddrPort(remoteAddr)
	if err != nil {
		return fmt.Errorf("tcp-collector: %w: invalid --remote-address %q: %w", errclass.ErrConfig, remoteAddr, err)
	}

	ctx, cancel := cliutil.SignalContext()
	defer cancel()

	tr, err := transport.DialTCP(ctx, addr, logger)
	if err != nil {
		return err
	}
	defer tr.Close()

	sk, err := cliutil.NewSink(doc, logger)
	if err != nil {
		return err
	}

	source := tracerecorder.NewChunkSource(ctx, tr, tracerecorder.UnimplementedDecoder{}, 0)

	return control.Run(ctx, control.Options{
		Doc:       doc,
		RunID:     runID,
		Source:    source,
		Sink:      sk,
		Transport: tr,
		Logger:    logger,
	})
}
