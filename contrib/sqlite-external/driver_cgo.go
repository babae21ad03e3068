//go:build cgo_sqlite

package sqliteexternal

import (
	"github.com/mattn/go-sqlite3"
)

// Names reported by core/sqlite when this driver is linked in.
const (
	DriverName    = "sqlite3"
	DriverType    = "cgo"
	DriverPackage = "github.com/mattn/go-sqlite3"
)

// LibraryVersion returns the version of the linked SQLite C library.
func LibraryVersion() string {
	v, _, _ := sqlite3.Version()
	return v
}
