package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLikes, downCreateLikes)
}

// The UNIQUE (user_id, post_filename) constraint is load-bearing: it is the
// mechanism that prevents duplicate likes under concurrent toggles, not an
// application-level check.
func upCreateLikes(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS likes (
    id            BIGSERIAL PRIMARY KEY,
    user_id       BIGINT NOT NULL,
    post_filename TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    CONSTRAINT unique_user_post_like UNIQUE (user_id, post_filename)
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS likes (
    id            BIGINT AUTO_INCREMENT PRIMARY KEY,
    user_id       BIGINT NOT NULL,
    post_filename VARCHAR(255) NOT NULL,
    created_at    TIMESTAMP(6) NOT NULL,
    CONSTRAINT unique_user_post_like UNIQUE (user_id, post_filename)
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS likes (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL,
    post_filename TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL,
    CONSTRAINT unique_user_post_like UNIQUE (user_id, post_filename)
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create likes table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS likes_post_filename_idx ON likes (post_filename)`)
	return err
}

func downCreateLikes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS likes`)
	return err
}
