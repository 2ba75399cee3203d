// Package main is the entry point for the color-adjust command.
package main

import (
	"os"

	"bennypowers.dev/coloradjust/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
