// Command matchengine reads order actions from an input CSV, replays
// them through the matching engine, and writes the resulting event log
// to an output CSV, per spec.md §6.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saiputravu/matchengine/internal/applog"
	"github.com/saiputravu/matchengine/internal/csvio"
	"github.com/saiputravu/matchengine/internal/engine"
)

const logFileName = "matchengine.log"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "matchengine <input.csv> <output.csv>",
		Short:         "Replay order actions through a price-time-priority matching engine",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1])
		},
	}
	return cmd
}

// run implements the whole of spec.md §6's external contract: exit
// non-nil only on a fatal error (unreadable input, unwritable output);
// per-line and per-action errors are counted and logged, never fatal.
func run(inputPath, outputPath string) error {
	start := time.Now()

	log, closer, err := applog.New(logFileName)
	if err != nil {
		return err
	}
	defer closer.Close()

	mgr := engine.NewInstrumentManager(log)

	readResult, err := csvio.ReadActions(inputPath, log, mgr.Submit)
	if err != nil {
		return err
	}

	if err := mgr.Wait(); err != nil {
		return err
	}

	events := mgr.AllEvents()
	if err := csvio.WriteEvents(outputPath, events); err != nil {
		return err
	}

	dispatchErrors := mgr.Errors()
	fmt.Printf("orders processed: %d\n", readResult.LinesRead)
	fmt.Printf("events generated: %d\n", len(events))
	fmt.Printf("errors: %d\n", readResult.Malformed+len(dispatchErrors))
	fmt.Printf("wall time: %s\n", time.Since(start))
	return nil
}
