package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"caption-service/database"
	"caption-service/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = "id, username, email, password, preferred_language, user_tokens, token_issued_at, created_at"

// UserStore is the credential store.
type UserStore struct {
	db database.DBTX
}

func NewUserStore(db database.DBTX) *UserStore {
	return &UserStore{db: db}
}

// Create inserts u (password already hashed) and returns the new id.
// The UNIQUE constraint on email makes the duplicate check atomic.
func (s *UserStore) Create(ctx context.Context, u *models.User) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password, preferred_language) VALUES (?, ?, ?, ?)",
		u.Username, u.Email, u.Password, u.PreferredLanguage)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new user id: %w", err)
	}
	return int(id), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email", email)
}

// FindByToken resolves a session token. An empty token never matches.
func (s *UserStore) FindByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, "user_tokens", token)
}

func (s *UserStore) findOne(ctx context.Context, column, value string) (*models.User, error) {
	var u models.User
	err := sqlx.GetContext(ctx, s.db, &u, "SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}
	return &u, nil
}

// SetPassword replaces the password hash of the account registered under email.
func (s *UserStore) SetPassword(ctx context.Context, email, hash string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE users SET password = ? WHERE email = ?", hash, email)
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return expectOneRow(result)
}

// SetToken overwrites the user's session token. Whatever token was stored
// before stops resolving.
func (s *UserStore) SetToken(ctx context.Context, userID int, token string, issuedAt time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET user_tokens = ?, token_issued_at = ? WHERE id = ?", token, issuedAt, userID)
	if err != nil {
		return fmt.Errorf("failed to set token for user %d: %w", userID, err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
