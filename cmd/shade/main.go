package main

import (
	"os"

	"github.com/darkshade/shade/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
