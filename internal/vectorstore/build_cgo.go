//go:build sqlite_vec

package vectorstore

// This file is compiled with CGO and the sqlite_vec build tag. It links
// the real SQLite driver plus the sqlite-vec extension's Go bindings,
// giving ANN search a genuine vec0 virtual table.
//
// Build command:
//   CGO_ENABLED=1 go build -tags sqlite_vec ./...

import (
	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

const (
	// DriverName is the database/sql driver name used by this build.
	DriverName = "sqlite3"
	// VectorExtensionAvailable reports whether a native vec0 ANN table backs search.
	VectorExtensionAvailable = true
	// BuildMode identifies the active build configuration.
	BuildMode = "cgo"
)
