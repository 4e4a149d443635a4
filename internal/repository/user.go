package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrResetTokenNotFound = errors.New("reset token not found")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

const userColumns = `id, name, email, password_hash, initials, reset_token_hash, reset_token_expires, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct. The
// users.email unique index is the authority on uniqueness: a violation is
// reported as ErrDuplicateEmail no matter what the caller checked beforehand.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	query := `INSERT INTO users (name, email, password_hash, initials, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.Initials, now, now)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a user by their (already normalized) email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), ErrUserNotFound)
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), ErrUserNotFound)
}

// SetResetToken stores a reset token digest and its expiry, replacing any
// earlier one.
func (r *UserRepository) SetResetToken(ctx context.Context, userID int64, digest string, expires time.Time) error {
	query := `UPDATE users SET reset_token_hash = ?, reset_token_expires = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, digest, expires.UTC(), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("storing reset token: %w", err)
	}
	return requireRows(result, ErrUserNotFound)
}

// GetByResetToken returns the user holding digest, provided it expires after now.
func (r *UserRepository) GetByResetToken(ctx context.Context, digest string, now time.Time) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token_hash = ? AND reset_token_expires > ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, digest, now.UTC()), ErrResetTokenNotFound)
}

// ConsumeResetToken sets a new password hash and clears the reset token in a
// single statement. The WHERE clause re-checks the digest and expiry, so of two
// concurrent consumers only one can succeed; the loser gets ErrResetTokenNotFound.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, userID int64, digest string, now time.Time, passwordHash string) error {
	query := `UPDATE users
		SET password_hash = ?, reset_token_hash = NULL, reset_token_expires = NULL, updated_at = ?
		WHERE id = ? AND reset_token_hash = ? AND reset_token_expires > ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), userID, digest, now.UTC())
	if err != nil {
		return fmt.Errorf("consuming reset token: %w", err)
	}
	return requireRows(result, ErrResetTokenNotFound)
}

func (r *UserRepository) scanOne(row *sql.Row, notFound error) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Initials,
		&user.ResetTokenHash, &user.ResetTokenExpires, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return user, nil
}

func requireRows(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
