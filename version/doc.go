// Package version reports the restkit build version.
//
// Version and commit are set at link time and fall back to the VCS stamp
// embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/kbukum/restkit/version.Version=1.2.0" ./cmd/restkit
//
// UserAgent formats the default User-Agent header sent by restkit clients.
package version
