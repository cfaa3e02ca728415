//go:build purego || !sqlite_vec

package vectorstore

// This file is compiled without CGO, or with the purego tag. There is no
// C compiler dependency and no sqlite-vec extension; ANN search falls
// back to a brute-force cosine scan computed in Go.
//
// Build command:
//   CGO_ENABLED=0 go build -tags purego ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver name used by this build.
	DriverName = "sqlite"
	// VectorExtensionAvailable reports whether a native vec0 ANN table backs search.
	VectorExtensionAvailable = false
	// BuildMode identifies the active build configuration.
	BuildMode = "purego"
)
