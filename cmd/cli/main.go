package main

import (
	"os"

	"github.com/martillo-dev/martillo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
