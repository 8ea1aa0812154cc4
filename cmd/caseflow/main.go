// Command caseflow is the CLI host for the case lifecycle rules engine.
package main

import (
	"os"

	"github.com/veritas-suite/caseflow/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute already prints the error through the root command's stderr.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
