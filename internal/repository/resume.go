package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ResumeRepository stores one resume text per user.
type ResumeRepository struct {
	db *sql.DB
}

// NewResumeRepository creates a new ResumeRepository.
func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

// Get returns the user's resume text, or "" if none was saved.
func (r *ResumeRepository) Get(ctx context.Context, userID int64) (string, error) {
	var text string
	err := r.db.QueryRowContext(ctx, `SELECT resume_text FROM resumes WHERE user_id = ?`, userID).Scan(&text)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("reading resume: %w", err)
	}
	return text, nil
}

// Upsert replaces the user's resume text.
func (r *ResumeRepository) Upsert(ctx context.Context, userID int64, text string) error {
	query := `INSERT INTO resumes (user_id, resume_text, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			resume_text = VALUES(resume_text),
			updated_at  = VALUES(updated_at)`

	if _, err := r.db.ExecContext(ctx, query, userID, text, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving resume: %w", err)
	}
	return nil
}
