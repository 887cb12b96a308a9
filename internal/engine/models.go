package engine

import (
	"github.com/cxd309/pilot-engine/internal/sim"
	"github.com/cxd309/pilot-engine/internal/world"
)

// SimulationMeta holds the identity and timing parameters for a simulation run.
type SimulationMeta struct {
	SimulationID string  `json:"simulation_id"` // generated when empty
	RunTime      float64 `json:"run_time"`      // seconds
	TimeStep     float64 `json:"time_step"`     // seconds; 0 selects 1/60
}

// SimulationInput is the JSON-serialisable input to the engine.
type SimulationInput struct {
	Meta     SimulationMeta `json:"simulation_meta"`
	Scenario sim.Scenario   `json:"scenario"`
	// Predicate is an expr expression over a predicted ball frame selecting the
	// frames the car may aim to meet the ball at. Empty uses the grounded default.
	Predicate string `json:"intercept_predicate,omitempty"`
}

// SimulationLogRow is the world and the decision taken at a single timestep.
type SimulationLogRow struct {
	Timestamp float64      `json:"timestamp"` // seconds
	World     sim.WorldLog `json:"world"`
	Input     world.Input  `json:"input"`
	Stack     []string     `json:"stack"` // behavior names, bottom to top, after the tick
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta    SimulationMeta     `json:"simulation_meta"`
	Events  []string           `json:"events"`
	Touches int                `json:"touches"`
	Output  []SimulationLogRow `json:"output"`
}
