package sandbox

import (
	// cgo SQLite, registered with database/sql as "sqlite3".
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	RegisterDriver(Driver{
		Name:    "sqlite3",
		SQLName: "sqlite3",
		DSN:     fileURI,
	})
}
