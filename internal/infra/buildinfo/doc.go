// Package buildinfo provides build information for dictcore-cli.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/dictcore/internal/infra/buildinfo.Version=v0.1.0"
//
// Commit and GoVersion fall back to what the Go toolchain embedded in the
// binary when they are not set.
package buildinfo
