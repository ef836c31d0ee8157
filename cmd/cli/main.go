// Package main is the entry point for size-convert CLI.
package main

import (
	"os"

	"size-convert/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
