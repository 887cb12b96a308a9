//go:build js && wasm

// Command wasm exposes the pilot engine to the browser via WebAssembly.
// After loading, it registers global JavaScript functions:
//
//	runScenario(jsonString) -> jsonString
//	defaultScenario() -> jsonString
//
// The input and output are JSON-encoded SimulationInput and SimulationLog
// respectively, matching the same contract used by the CLI.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/cxd309/pilot-engine/internal/engine"
	"github.com/cxd309/pilot-engine/internal/sim"
)

func main() {
	js.Global().Set("runScenario", js.FuncOf(runScenario))
	js.Global().Set("defaultScenario", js.FuncOf(defaultScenario))
	select {} // keep the WASM module alive until the page is closed
}

func runScenario(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}

func defaultScenario(_ js.Value, _ []js.Value) any {
	input := engine.SimulationInput{
		Meta:     engine.SimulationMeta{RunTime: 10, TimeStep: engine.DefaultTimeStep},
		Scenario: sim.DefaultScenario(),
	}
	out, err := json.Marshal(input)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return string(out)
}
