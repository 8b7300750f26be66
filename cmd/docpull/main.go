// Package main is the entry point for the docpull CLI.
package main

import (
	"os"

	"github.com/jmylchreest/docpull/cmd/docpull/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
