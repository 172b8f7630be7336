// Package command provides the dictcore-cli command definitions.
//
// It uses urfave/cli/v2:
//
//   - root.go: App, global flags, configuration and logger setup
//   - bench.go: churn benchmark with metrics endpoint and config watch
//   - repl.go: interactive dictionary shell
//   - config.go: show and validate the effective configuration
//   - version.go: build information
//
// The global Before hook loads the configuration (file, DICTCORE_*
// environment, flags) and builds the logger; commands read both from the
// app metadata.
package command
