// Package version carries build information for the ntfywatch binary.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/ntfywatch/version.Version=1.0.0"
//
// Anything left unset falls back to the VCS stamp from debug.ReadBuildInfo.
package version
