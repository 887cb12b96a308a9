// Package engine implements the pilot's fixed-step harness loop.
//
// Each step has three passes:
//
//  1. Predict - the ball is simulated ahead from the current packet.
//
//  2. Decide - the behavior runner ticks against the packet and prediction and
//     returns the controller input (or nothing, which leaves the car idle).
//
//  3. Apply - the simulated world advances by one timestep under that input, and
//     the debug sink ships the tick's drawings and logs.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/cxd309/pilot-engine/internal/behavior"
	"github.com/cxd309/pilot-engine/internal/eeg"
	"github.com/cxd309/pilot-engine/internal/predict"
	"github.com/cxd309/pilot-engine/internal/sim"
	"github.com/cxd309/pilot-engine/internal/strategy"
	"github.com/cxd309/pilot-engine/internal/world"
)

// DefaultTimeStep is the game's tick length.
const DefaultTimeStep = 1.0 / 60

var errDiverged = errors.New("car state is not finite")

// Options wires the engine's collaborators. The zero value is usable.
type Options struct {
	// EEG receives every tick's debug output. When nil the engine makes its own
	// and closes it when the run ends.
	EEG    *eeg.EEG
	Logger *slog.Logger
	// Strategy is the root strategy; nil plays behavior.Soccar.
	Strategy strategy.Strategy
	// Predictor sets the ball prediction horizon; a zero Horizon selects
	// predict.DefaultPredictor's. Its Step is always the simulation time step.
	Predictor          predict.Predictor
	MaxActionsPerTick  int
	MaxSegmentsPerTick int
}

// Engine is the simulation engine state.
type Engine struct {
	meta      SimulationMeta
	world     *sim.World
	runner    *strategy.Runner
	predictor predict.Predictor
	predicate predict.Predicate
	sink      *eeg.EEG
	ownsSink  bool
	logger    *slog.Logger
}

// NewEngine constructs an Engine from a SimulationInput, placing the car and ball
// at their initial states.
func NewEngine(input SimulationInput, opts Options) (*Engine, error) {
	meta := input.Meta
	if meta.SimulationID == "" {
		meta.SimulationID = uuid.NewString()
	}
	if meta.TimeStep == 0 {
		meta.TimeStep = DefaultTimeStep
	}
	if meta.TimeStep < 0 || meta.RunTime <= 0 {
		return nil, fmt.Errorf("simulation %s: run_time and time_step must be positive", meta.SimulationID)
	}

	var pred predict.Predicate
	if input.Predicate != "" {
		p, err := predict.CompilePredicate(input.Predicate)
		if err != nil {
			return nil, fmt.Errorf("simulation %s: %w", meta.SimulationID, err)
		}
		pred = p
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("simulation_id", meta.SimulationID)

	root := opts.Strategy
	if root == nil {
		root = behavior.NewSoccar(behavior.Options{MaxSegmentsPerTick: opts.MaxSegmentsPerTick})
	}

	predictor := opts.Predictor
	if predictor.Horizon <= 0 {
		predictor.Horizon = predict.DefaultPredictor.Horizon
	}
	predictor.Step = meta.TimeStep

	sink, owns := opts.EEG, false
	if sink == nil {
		sink, owns = eeg.New(eeg.Options{Logger: logger}), true
	}

	return &Engine{
		meta:      meta,
		world:     sim.NewWorld(input.Scenario),
		runner:    strategy.NewRunner(root, opts.MaxActionsPerTick),
		predictor: predictor,
		predicate: pred,
		sink:      sink,
		ownsSink:  owns,
		logger:    logger,
	}, nil
}

// Meta is the resolved simulation metadata.
func (e *Engine) Meta() SimulationMeta { return e.meta }

// World is the simulated world.
func (e *Engine) World() *sim.World { return e.world }

// Events are the named events tracked so far.
func (e *Engine) Events() []string { return e.sink.Events() }

// Done reports whether the run time has elapsed or the ball has been scored.
func (e *Engine) Done() bool {
	return e.world.Time > e.meta.RunTime || e.world.Scored()
}

// Step advances the simulation by one timestep and returns the resulting log row.
func (e *Engine) Step() (SimulationLogRow, error) {
	packet := e.world.Packet()
	ctx := strategy.NewContext(packet, e.predictor.Predict(packet.Ball), e.world.Model(), e.predicate, e.sink)

	in, ok := e.runner.Tick(ctx)
	if !ok {
		in = world.Input{}
	}
	e.sink.Show(packet)
	e.world.Step(e.meta.TimeStep, in)

	if !finite(e.world.Car.Loc) || !finite(e.world.Car.Vel) {
		return SimulationLogRow{}, errDiverged
	}
	return SimulationLogRow{
		Timestamp: packet.Time,
		World:     e.world.GetLog(),
		Input:     in,
		Stack:     e.runner.Stack(),
	}, nil
}

// Close shuts down the EEG if the engine made it.
func (e *Engine) Close() {
	if e.ownsSink {
		e.sink.Close()
	}
}

// Run executes the full simulation and returns the log. It closes the engine
// when done.
func (e *Engine) Run() (SimulationLog, error) {
	defer e.Close()
	log := SimulationLog{Meta: e.meta}
	for !e.Done() {
		row, err := e.Step()
		if err != nil {
			return SimulationLog{}, fmt.Errorf("at t=%.2f: %w", e.world.Time, err)
		}
		log.Output = append(log.Output, row)
	}
	log.Events = e.sink.Events()
	log.Touches = e.world.Touches
	e.logger.Info("simulation finished",
		"sim_time", e.world.Time,
		"touches", log.Touches,
		"events", len(log.Events),
		"dropped_frames", e.sink.Dropped(),
	)
	return log, nil
}

func finite(v [3]float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// RunJSON is the entry point shared by the CLI and WASM targets.
// It accepts a JSON-encoded SimulationInput, runs the simulation, and returns a
// JSON-encoded SimulationLog.
func RunJSON(jsonInput string) (string, error) {
	var input SimulationInput
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}

	eng, err := NewEngine(input, Options{})
	if err != nil {
		return "", err
	}

	simLog, err := eng.Run()
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(simLog)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
