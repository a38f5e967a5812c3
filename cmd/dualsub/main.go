package main

import (
	"os"

	"github.com/mkotas/dualsub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
