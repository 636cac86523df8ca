// Package main provides the sqlplayground CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlplayground/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
