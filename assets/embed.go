// assets/embed.go
//
// Embedded runtime data:
//   - players.json: default roster used when ROSTER_FILE is unset.
//   - sql/*.sql:    SQLite migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed players.json sql/*.sql
var FS embed.FS

// DefaultPlayers returns the embedded roster JSON.
func DefaultPlayers() []byte {
	b, err := FS.ReadFile("players.json")
	if err != nil {
		return []byte("[]")
	}
	return b
}

// Migrations returns the migration directory as its own filesystem root.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		return FS
	}
	return sub
}
