package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

const jobColumns = `id, user_id, company, title, status, notes, job_description, ai_analysis, deadline, created_at, updated_at`

// JobRepository handles job persistence. Every query is scoped by user_id so a
// user can never read or modify another user's rows.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// ListByUser retrieves all jobs for a user, newest first.
func (r *JobRepository) ListByUser(ctx context.Context, userID int64) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		var j model.Job
		if err := scanJob(rows, &j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// GetByID retrieves one job owned by userID.
func (r *JobRepository) GetByID(ctx context.Context, userID, id int64) (*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ? AND user_id = ?`

	var j model.Job
	if err := scanJob(r.db.QueryRowContext(ctx, query, id, userID), &j); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}

// Create inserts job and fills in its ID and timestamps.
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	now := time.Now().UTC()
	query := `INSERT INTO jobs (user_id, company, title, status, notes, job_description, ai_analysis, deadline, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		job.UserID, job.Company, job.Title, job.Status, job.Notes,
		job.JobDescription, job.AIAnalysis, job.Deadline, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading job id: %w", err)
	}

	job.ID = id
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

// Update overwrites the mutable fields of job. Callers check ownership first;
// MySQL reports zero affected rows for a no-op update, so the count is not used.
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	query := `UPDATE jobs
		SET company = ?, title = ?, status = ?, notes = ?, job_description = ?, ai_analysis = ?, deadline = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	_, err := r.db.ExecContext(ctx, query,
		job.Company, job.Title, job.Status, job.Notes, job.JobDescription,
		job.AIAnalysis, job.Deadline, time.Now().UTC(), job.ID, job.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	return nil
}

// Delete removes one job owned by userID.
func (r *JobRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return requireRows(result, ErrJobNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner, j *model.Job) error {
	err := row.Scan(
		&j.ID, &j.UserID, &j.Company, &j.Title, &j.Status, &j.Notes,
		&j.JobDescription, &j.AIAnalysis, &j.Deadline, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("scanning job: %w", err)
	}
	return err
}
