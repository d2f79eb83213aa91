// SPDX-License-Identifier: GPL-3.0-or-later

// Command rtt-collector streams a live TraceRecorder session out of a
// target's RTT channel behind a debug probe (spec.md §2, §5.3).
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fwtrace/reflector/internal/cliutil"
	"github.com/fwtrace/reflector/internal/control"
	"github.com/fwtrace/reflector/internal/probe"
	"github.com/fwtrace/reflector/internal/tracerecorder"
	"github.com/fwtrace/reflector/internal/transport"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var flags cliutil.IngestFlags
	var opts probe.Options
	var upChannel, downChannel int
	var controlBlockAddr uint64
	var elfFile, setupOnBreakpoint string
	var pollInterval time.Duration
	var bufferSize int

	cmd := &cobra.Command{
		Use:          "rtt-collector",
		Short:        "Stream a TraceRecorder session from an RTT channel into the sink",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			finder := probe.UnimplementedRTTFinder{
				ElfFile:           elfFile,
				ControlBlockAddr:  controlBlockAddr,
				SetupOnBreakpoint: setupOnBreakpoint,
			}
			return run(flags, opts, finder, pollInterval, logger)
		},
	}
	cliutil.BindIngestFlags(cmd, &flags)
	cmd.Flags().StringVar(&opts.Selector, "probe-selector", "", "debug-probe serial number or URI")
	cmd.Flags().StringVar(&opts.Chip, "chip", "", "target chip name")
	cmd.Flags().StringVar(&opts.Protocol, "probe-protocol", "swd", "wire protocol: swd|jtag")
	cmd.Flags().IntVar(&opts.SpeedKHz, "probe-speed-khz", 0, "wire protocol speed in kHz")
	cmd.Flags().IntVar(&opts.CoreIndex, "core-index", 0, "target core index for multi-core chips")
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "reset the target before attaching")
	cmd.Flags().BoolVar(&opts.UnderReset, "attach-under-reset", false, "attach while the target is held in reset")
	cmd.Flags().IntVar(&upChannel, "rtt-up-channel", 0, "RTT up-channel index carrying the trace stream")
	cmd.Flags().IntVar(&downChannel, "rtt-down-channel", 0, "RTT down-channel index carrying control-plane bytes")
	cmd.Flags().Uint64Var(&controlBlockAddr, "rtt-control-block-address", 0, "known RTT control-block address, skipping memory scan")
	cmd.Flags().StringVar(&elfFile, "rtt-elf-file", "", "ELF file used to locate the RTT control-block symbol")
	cmd.Flags().DurationVar(&pollInterval, "rtt-poll-interval", transport.DefaultRTTPollInterval, "RTT up-channel poll interval")
	cmd.Flags().IntVar(&bufferSize, "rtt-buffer-size", 4096, "RTT channel buffer size")
	cmd.Flags().StringVar(&setupOnBreakpoint, "rtt-setup-on-breakpoint", "", "symbol to break on before starting RTT reads")

	cliutil.Exit(cmd.Execute(), logger)
}

func run(flags cliutil.IngestFlags, opts probe.Options, finder probe.UnimplementedRTTFinder, pollInterval time.Duration, logger *slog.Logger) error {
	doc, err := cliutil.LoadConfig(flags)
	if err != nil {
		return err
	}

	runID, err := cliutil.ResolveRunID(doc.Ingest.RunID, logger)
	if err != nil {
		return err
	}

	ctx, cancel := cliutil.SignalContext()
	defer cancel()

	tr, err := transport.OpenRTT(ctx, probe.Unimplemented{Options: opts}, finder, pollInterval)
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
