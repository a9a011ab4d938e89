package main

import (
	"fmt"
	"os"

	"pipeline-lab/cmd/pipeline-lab/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
