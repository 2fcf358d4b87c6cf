package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported database
// backends. Repositories write SQL once with ? placeholders; the
// dialect handles driver names, DSNs, placeholder syntax, and the
// backend-specific migration plumbing.
type Dialect interface {
	// DriverName is the name registered with sql.Open.
	DriverName() string

	// DSN builds the data source name from the connection config.
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders to the backend's syntax.
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver implements
	// LastInsertId; Postgres does not and needs RETURNING.
	SupportsLastInsertId() bool

	// ConfigureConnection applies backend-specific session settings.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the per-backend schema directory under
	// the migrations path.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery is the DDL for the table tracking
	// applied migrations.
	CreateMigrationsTableQuery() string

	// BoolValue renders a boolean for inline SQL.
	BoolValue(b bool) string
}

// DialectConfig holds the connection parameters; Path is used by
// SQLite, URL by Postgres and MySQL.
type DialectConfig struct {
	Path string
	URL  string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to the $1, $2
// numbering Postgres expects.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
