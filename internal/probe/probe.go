// Package probe implements the check-conn diagnostic: a single round
// trip that reports server identity fields without touching the
// catalog.
package probe

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/peopleworks/SqlSchemaDiff/internal/apperr"
)

// Info is the server identity reported by check-conn.
type Info struct {
	ServerName string
	DBName     string
	LoginName  string
	Version    string
	Edition    string
}

// String renders Info as the lines printed by the check-conn command.
func (i Info) String() string {
	return fmt.Sprintf(
		"Server:  %s\nDatabase: %s\nLogin:   %s\nVersion: %s\nEdition: %s",
		i.ServerName, i.DBName, i.LoginName, i.Version, i.Edition,
	)
}

// Check queries db for the five identity fields in a single statement.
func Check(ctx context.Context, db *sql.DB) (Info, error) {
	row := db.QueryRowContext(ctx,
		`SELECT @@SERVERNAME, DB_NAME(), SUSER_SNAME(), @@VERSION, SERVERPROPERTY('Edition')`)

	var info Info
	if err := row.Scan(&info.ServerName, &info.DBName, &info.LoginName, &info.Version, &info.Edition); err != nil {
		return Info{}, apperr.IO("querying connection identity", err)
	}
	return info, nil
}
