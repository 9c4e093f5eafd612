package types

// Version is the obsforge version string.
// Overridden at build time via -ldflags "-X .../types.Version=v1.2.3".
var Version = "0.3.0-dev"
