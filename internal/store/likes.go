package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Like is a row in the likes table. The UNIQUE (user_id, post_filename)
// constraint is what keeps concurrent toggles from producing duplicates.
type Like struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	PostFilename string    `db:"post_filename"`
	CreatedAt    time.Time `db:"created_at"`
}

type LikeStore struct {
	db *sqlx.DB
}

func NewLikeStore(db *sqlx.DB) *LikeStore {
	return &LikeStore{db: db}
}

// Toggle flips the like state for (userID, filename) and reports the new
// state. It inserts first: a uniqueness violation means the row already
// exists — including one inserted by a concurrent toggle that won the race —
// so that branch deletes the row and reports unliked instead of surfacing
// the violation.
func (s *LikeStore) Toggle(ctx context.Context, userID int64, filename string) (liked bool, err error) {
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO likes (user_id, post_filename, created_at) VALUES (?, ?, ?)
	`, userID, filename, time.Now().UTC())
	if err == nil {
		return true, nil
	}
	if !isUniqueConstraintError(err) {
		return false, err
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM likes WHERE user_id = ? AND post_filename = ?
	`, userID, filename)
	if err != nil {
		return false, err
	}
	return false, nil
}

// Count returns the number of likes for one post.
func (s *LikeStore) Count(ctx context.Context, filename string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM likes WHERE post_filename = ?`, filename)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// HasLiked reports whether userID has an active like on filename.
func (s *LikeStore) HasLiked(ctx context.Context, userID int64, filename string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM likes WHERE user_id = ? AND post_filename = ?
	`, userID, filename)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Counts returns like counts for every post with at least one like, in a
// single grouped query. Listing merges against this map instead of issuing
// one count query per post.
func (s *LikeStore) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT post_filename, COUNT(*) AS n FROM likes GROUP BY post_filename
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var filename string
		var n int
		if err := rows.Scan(&filename, &n); err != nil {
			return nil, err
		}
		counts[filename] = n
	}
	return counts, rows.Err()
}

// LikedBy returns the set of post filenames userID has liked.
func (s *LikeStore) LikedBy(ctx context.Context, userID int64) (map[string]bool, error) {
	var filenames []string
	err := s.db.SelectContext(ctx, &filenames, `
		SELECT post_filename FROM likes WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	liked := make(map[string]bool, len(filenames))
	for _, f := range filenames {
		liked[f] = true
	}
	return liked, nil
}

// PurgeForPost removes every like referencing filename. Invoked by the
// coordinator when a post is deleted.
func (s *LikeStore) PurgeForPost(ctx context.Context, filename string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE post_filename = ?`, filename)
	return err
}

// PurgeForUser removes every like owned by userID. Invoked by the
// coordinator when an account is deleted.
func (s *LikeStore) PurgeForUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ?`, userID)
	return err
}

// Rekey moves like rows from oldFilename to newFilename after a post rename.
// Rows that would collide with an existing like on the target are dropped
// first so the move cannot violate the uniqueness constraint.
func (s *LikeStore) Rekey(ctx context.Context, oldFilename, newFilename string) error {
	if oldFilename == newFilename {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The derived table keeps MySQL happy: it cannot reference the target
	// table of a DELETE directly in a subquery.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM likes
		WHERE post_filename = ?
		  AND user_id IN (SELECT user_id FROM (
		      SELECT user_id FROM likes WHERE post_filename = ?) existing)
	`, oldFilename, newFilename)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE likes SET post_filename = ? WHERE post_filename = ?
	`, newFilename, oldFilename)
	if err != nil {
		return err
	}

	return tx.Commit()
}
