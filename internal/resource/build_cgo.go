//go:build cgo && !purego
// +build cgo,!purego

package resource

// Compiled for CGO builds. Uses the C SQLite driver, which is the
// faster option when a C toolchain is available:
//
//   CGO_ENABLED=1 go build ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the database/sql driver to open stores with.
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration.
	BuildMode = "cgo"
)
