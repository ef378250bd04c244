package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned when creating a username that is taken.
	ErrUserExists = errors.New("username already registered")

	// ErrInvalidCredentials is returned for unknown users and wrong
	// passwords alike; callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// UserStore persists user credentials in a local sqlite database.
// Passwords are stored as bcrypt hashes.
type UserStore struct {
	db *sql.DB
}

// NewUserStore opens (or creates) the database at path and ensures the
// users table exists.
func NewUserStore(path string) (*UserStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize user database: %w", err)
	}

	return &UserStore{db: db}, nil
}

// Create registers a new user. Returns ErrUserExists when the username
// is taken.
func (s *UserStore) Create(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT username FROM users WHERE username = ?", username).Scan(&existing)
	switch {
	case err == nil:
		return ErrUserExists
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)", username, string(hash)); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Authenticate verifies a username/password pair. Returns
// ErrInvalidCredentials on any mismatch.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) error {
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT password_hash FROM users WHERE username = ?", username).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrInvalidCredentials
	case err != nil:
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Close releases the underlying database handle.
func (s *UserStore) Close() error {
	return s.db.Close()
}
