package main

import (
	"os"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
