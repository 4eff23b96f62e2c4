//go:build purego || !cgo
// +build purego !cgo

package resource

// Compiled without CGO or with the purego tag. Uses the pure Go SQLite
// implementation, so no C compiler is required:
//
//   CGO_ENABLED=0 go build ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver to open stores with.
	DriverName = "sqlite"

	// BuildMode describes the current build configuration.
	BuildMode = "purego"
)
