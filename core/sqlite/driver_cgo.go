//go:build cgo_sqlite

package sqlite

import (
	sqliteexternal "github.com/FocuswithJustin/MiAlmaBiblia/contrib/sqlite-external"
)

const (
	driverName = sqliteexternal.DriverName
	driverType = sqliteexternal.DriverType
)

var driverPackage = sqliteexternal.DriverPackage + " (SQLite " + sqliteexternal.LibraryVersion() + ")"
