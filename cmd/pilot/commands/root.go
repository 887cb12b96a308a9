// Package commands holds the pilot CLI's cobra commands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cxd309/pilot-engine/internal/config"
	"github.com/cxd309/pilot-engine/internal/engine"
	"github.com/cxd309/pilot-engine/internal/sim"
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pilot",
		Short: "Ball-chasing decision core with a built-in simulator",
		Long: `pilot plans and drives ground routes to the ball: it predicts the ball,
finds where the car can meet it, and runs a behavior stack that turns the plan
into controller input every tick.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String("config", "", "YAML file layered over the PILOT_* environment")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads .env, the environment and the --config file if given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	_ = godotenv.Load()
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// readInput loads a SimulationInput from the first argument, from stdin when the
// argument is "-", or falls back to the default scenario.
func readInput(cmd *cobra.Command, args []string) (engine.SimulationInput, error) {
	var input engine.SimulationInput
	if len(args) == 0 {
		input.Scenario = sim.DefaultScenario()
		return input, nil
	}

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return input, fmt.Errorf("error reading input: %w", err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("invalid input JSON: %w", err)
	}
	return input, nil
}

// applyConfig fills the parts of input left unset from cfg.
func applyConfig(input *engine.SimulationInput, cfg *config.Config, runTime float64) {
	if input.Meta.TimeStep == 0 {
		input.Meta.TimeStep = cfg.TimeStep()
	}
	if input.Meta.RunTime == 0 {
		input.Meta.RunTime = runTime
	}
	if input.Predicate == "" {
		input.Predicate = cfg.InterceptPredicate
	}
}

func engineOptions(cfg *config.Config, logger *slog.Logger) engine.Options {
	return engine.Options{
		Logger:             logger,
		Predictor:          cfg.Predictor(),
		MaxActionsPerTick:  cfg.MaxActionsPerTick,
		MaxSegmentsPerTick: cfg.MaxSegmentsPerTick,
	}
}
