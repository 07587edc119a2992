// Package migrations contains dialect-aware Go database migrations: the
// auto-increment primary key syntax differs across the supported drivers, so
// the schema cannot be expressed as one cross-database SQL file.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
