// Package version reports build information of the vpgbench binary and the
// versions of the external tools it drives.
//
// Version, commit, branch and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/vpgbench/version.Version=1.0.0"
//
// Unset fields fall back to the VCS stamps of runtime/debug.
package version
