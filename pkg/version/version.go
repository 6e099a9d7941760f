// Package version holds the application version.
package version

// Version is overridden at build time with -ldflags "-X traces/pkg/version.Version=...".
var Version = "v0.1.0"
