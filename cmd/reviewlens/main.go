// Package main is the entry point for the reviewlens CLI.
package main

import (
	"os"

	"github.com/reviewlens/reviewlens/cmd/reviewlens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
