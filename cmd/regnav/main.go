package main

import (
	"os"

	"github.com/avsafe-labs/regnav/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
