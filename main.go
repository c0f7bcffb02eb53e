// sandrun is a process sandbox launcher with adaptive telemetry.
//
// It runs an untrusted native executable inside a strongly isolated
// subprocess (new namespaces, reduced resource limits, a syscall
// allow-list) while a supervisor samples the child's resource usage
// and, under the LEARNING profile, can escalate to immediate
// termination. On exit it writes a structured run report to logs/.
package main

import (
	"fmt"
	"os"

	"sandrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sandrun: %v\n", err)
		os.Exit(1)
	}
}
