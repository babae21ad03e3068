// Package sqliteexternal provides the optional CGO SQLite driver.
//
// To use the CGO driver (github.com/mattn/go-sqlite3), build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...
//
// core/sqlite imports this package under that tag. Without the tag the
// reader state is stored through the pure Go modernc.org/sqlite driver, which
// keeps cross-compiled binaries free of CGO.
package sqliteexternal
