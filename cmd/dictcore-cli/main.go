// Package main provides the entry point for dictcore-cli.
//
// dictcore-cli drives the insertion-ordered dictionary engine: it runs
// churn benchmarks, offers an interactive dictionary shell and shows the
// effective configuration.
package main

import (
	"os"

	"github.com/yndnr/dictcore/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
