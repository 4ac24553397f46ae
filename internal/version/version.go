// Package version holds the build version of glm-usage.
package version

// Version is set with -ldflags "-X .../internal/version.Version=...".
var Version = "dev"
