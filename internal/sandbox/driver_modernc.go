package sandbox

import (
	// Pure Go SQLite, registered with database/sql as "sqlite".
	_ "modernc.org/sqlite"
)

func init() {
	RegisterDriver(Driver{
		Name:    "sqlite",
		SQLName: "sqlite",
		DSN:     fileURI,
	})
}
