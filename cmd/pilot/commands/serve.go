package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/eeg/viz"
	"github.com/cxd309/pilot-engine/internal/engine"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var runTime float64
	cmd := &cobra.Command{
		Use:   "serve [scenario.json | -]",
		Short: "Play a scenario in real time and stream debug frames",
		Long: `Serve plays a scenario at the configured tick rate and streams every debug
frame to websocket viewers on PILOT_VIZ_ADDR (GET /ws, GET /frames/latest).
It stops when the scenario ends or on interrupt.`,
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hub := viz.NewHub(logger)
			sink := eeg.New(eeg.Options{Logger: logger, QueueSize: cfg.EEGQueue, Consumers: []eeg.Consumer{hub}})
			defer sink.Close()
			opts := engineOptions(cfg, logger)
			opts.EEG = sink
			eng, err := engine.NewEngine(input, opts)
			if err != nil {
				return err
			}

			srv := &http.Server{Addr: cfg.VizAddr, Handler: hub.Router(), ReadHeaderTimeout: 5 * time.Second}
			serveErr := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()
			logger.Info("viz listening", "addr", cfg.VizAddr, "simulation_id", eng.Meta().SimulationID)

			runErr := play(ctx, eng, time.Duration(float64(time.Second)*eng.Meta().TimeStep), serveErr)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("viz shutdown", "error", err)
			}
			hub.Close()
			if runErr != nil {
				return runErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "touches: %d, events: %v\n", eng.World().Touches, eng.Events())
			return nil
		},
	}
	cmd.Flags().Float64Var(&runTime, "run-time", 60, "seconds to play when the input does not say")
	return cmd
}

// play steps eng once per tick until it is done or ctx ends.
func play(ctx context.Context, eng *engine.Engine, tick time.Duration, serveErr <-chan error) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for !eng.Done() {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-serveErr:
			if ok {
				return fmt.Errorf("viz server: %w", err)
			}
			serveErr = nil
		case <-ticker.C:
			if _, err := eng.Step(); err != nil {
				return fmt.Errorf("at t=%.2f: %w", eng.World().Time, err)
			}
		}
	}
	return nil
}
