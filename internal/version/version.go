// Package version provides centralized version information for HKB.
package version

// Version is the current HKB release version.
// It can be overridden at build time using ldflags:
//
//	go build -ldflags "-X hkb/internal/version.Version=1.2.3"
var Version = "0.4.0"
