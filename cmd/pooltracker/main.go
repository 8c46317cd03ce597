package main

import (
	"os"

	"github.com/Spok95/pool-tracker/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
