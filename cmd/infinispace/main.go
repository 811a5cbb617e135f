package main

import (
	"os"

	"github.com/infinispace/canvas/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
