package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// User is a row in the users table. PasswordHash holds a bcrypt digest; the
// raw password is never stored.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// dummyHash is a fixed bcrypt digest. Authenticate compares against it when
// the username is unknown so both failure paths cost one bcrypt verification
// and timing does not reveal whether the username exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Register creates an account. Returns ErrDuplicate when the username or
// email is already taken, and a validation error for blank fields or a
// too-short password.
//
// TODO: Placeholder `?` works for SQLite and MySQL but PostgreSQL needs `$1`,
// `$2`, etc. In production, use a DB-agnostic query builder or separate query
// files per driver.
func (s *UserStore) Register(ctx context.Context, username, email, password string) (*User, error) {
	if err := ValidateRegistration(username, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, username, email, string(hash), false, time.Now().UTC())
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		// Drivers without LastInsertId (postgres) fall back to a lookup.
		return s.GetByUsername(ctx, username)
	}
	return s.GetByID(ctx, id)
}

// Authenticate returns the account matching username and password, or
// ErrInvalidCredentials. It does not reveal whether the username exists.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// VerifyPassword reports whether password matches the stored digest for id.
func (s *UserStore) VerifyPassword(ctx context.Context, id int64, password string) (bool, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = ?`, username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all accounts, oldest first.
func (s *UserStore) List(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SetAdmin flips the administrator flag for id.
func (s *UserStore) SetAdmin(ctx context.Context, id int64, admin bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_admin = ? WHERE id = ?`, admin, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// UpdatePassword replaces the stored digest for id.
func (s *UserStore) UpdatePassword(ctx context.Context, id int64, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, string(hash), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// Delete removes the account row. Like rows are purged by the caller.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
