// SPDX-License-Identifier: GPL-3.0-or-later

// Command itm-collector streams a live TraceRecorder session out of a
// target's ITM stimulus port behind a debug probe (spec.md §2, §5.2).
package main

import (
	"log/slog"
	"os"

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
	var stimulusPort, commandAddr int
	var clkHz, baud int

	cmd := &cobra.Command{
		Use:          "itm-collector",
		Short:        "Stream a TraceRecorder session from an ITM stimulus port into the sink",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags, opts, stimulusPort, commandAddr, clkHz, baud, logger)
		},
	}
	cliutil.BindIngestFlags(cmd, &flags)
	bindProbeFlags(cmd, &opts)
	cmd.Flags().IntVar(&stimulusPort, "itm-stimulus-port", 1, "ITM stimulus port carrying the trace stream")
	cmd.Flags().IntVar(&commandAddr, "itm-command-address", 0, "target memory address of the ITM command stimulus port")
	cmd.Flags().IntVar(&clkHz, "itm-clk-hz", 0, "target core clock, for ITM baud-rate calculation")
	cmd.Flags().IntVar(&baud, "itm-baud", 0, "ITM SWO baud rate")

	cliutil.Exit(cmd.Execute(), logger)
}

func bindProbeFlags(cmd *cobra.Command, opts *probe.Options) {
	cmd.Flags().StringVar(&opts.Selector, "probe-selector", "", "debug-probe serial number or URI")
	cmd.Flags().StringVar(&opts.Chip, "chip", "", "target chip name")
	cmd.Flags().StringVar(&opts.Protocol, "probe-protocol", "swd", "wire protocol: swd|jtag")
	cmd.Flags().IntVar(&opts.SpeedKHz, "probe-speed-khz", 0, "wire protocol speed in kHz")
	cmd.Flags().IntVar(&opts.CoreIndex, "core-index", 0, "target core index for multi-core chips")
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "reset the target before attaching")
	cmd.Flags().BoolVar(&opts.UnderReset, "attach-under-reset", false, "attach while the target is held in reset")
}

func run(flags cliutil.IngestFlags, opts probe.Options, stimulusPort, commandAddr, clkHz, baud int, logger *slog.Logger) error {
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

	p := probe.Unimplemented{Options: opts}
	if err := p.Attach(ctx); err != nil {
		return err
	}
	tr := transport.NewITMTransport(p, probe.UnimplementedITMPort{})
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
