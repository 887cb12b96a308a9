// Command pilot runs the decision core against the built-in simulator.
//
//	pilot run [scenario.json]   run a scenario and print the per-tick log as JSON
//	pilot serve [scenario.json] play a scenario in real time and stream debug frames
//	pilot version
package main

import (
	"fmt"
	"os"

	"github.com/cxd309/pilot-engine/cmd/pilot/commands"
)

// Version information (set at link time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
