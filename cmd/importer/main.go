// SPDX-License-Identifier: GPL-3.0-or-later

// Command importer replays a pre-recorded TraceRecorder snapshot or
// streaming file through the adapter (spec.md §2 "a file importer").
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fwtrace/reflector/internal/cliutil"
	"github.com/fwtrace/reflector/internal/control"
	"github.com/fwtrace/reflector/internal/tracerecorder"
	"github.com/fwtrace/reflector/internal/transport"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var flags cliutil.IngestFlags
	var filePath string

	cmd := &cobra.Command{
		Use:          "importer",
		Short:        "Replay a recorded TraceRecorder file into the sink",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags, filePath, logger)
		},
	}
	cliutil.BindIngestFlags(cmd, &flags)
	cmd.Flags().StringVar(&filePath, "file", "", "path to the recorded TraceRecorder stream")
	cmd.MarkFlagRequired("file")

	cliutil.Exit(cmd.Execute(), logger)
}

func run(flags cliutil.IngestFlags, filePath string, logger *slog.Logger) error {
	doc, err := cliutil.LoadConfig(flags)
	if err != nil {
		return err
	}

	runID, err := cliutil.ResolveRunID(doc.Ingest.RunID, logger)
	if err != nil {
		return err
	}

	tr, err := transport.OpenFile(filePath)
	if err != nil {
		return err
	}
	defer tr.Close()

	sk, err := cliutil.NewSink(doc, logger)
	if err != nil {
		return err
	}

	ctx, cancel := cliutil.SignalContext()
	defer cancel()

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
