package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/marmos91/posixid/cmd/id/commands"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "id: %v\n", err)
		var usage *commands.UsageError
		if errors.As(err, &usage) {
			fmt.Fprint(os.Stderr, commands.Usage)
		}
		os.Exit(1)
	}
}
