package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/engine"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var (
		runTime float64
		indent  bool
	)
	cmd := &cobra.Command{
		Use:   "run [scenario.json | -]",
		Short: "Run a scenario and print the simulation log",
		Long: `Run reads a SimulationInput (from a file, or stdin with "-"), simulates it as
fast as possible and writes the SimulationLog JSON to stdout. Without an argument
the default scenario is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			applyConfig(&input, cfg, runTime)

			sink := eeg.New(eeg.Options{Logger: logger, QueueSize: cfg.EEGQueue})
			defer sink.Close()
			opts := engineOptions(cfg, logger)
			opts.EEG = sink

			eng, err := engine.NewEngine(input, opts)
			if err != nil {
				return err
			}
			simLog, err := eng.Run()
			if err != nil {
				return fmt.Errorf("simulation error: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(simLog)
		},
	}
	cmd.Flags().Float64Var(&runTime, "run-time", 10, "seconds to simulate when the input does not say")
	cmd.Flags().BoolVar(&indent, "indent", false, "pretty-print the output")
	return cmd
}
