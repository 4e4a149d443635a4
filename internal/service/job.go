package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
	"github.com/jobtrackr/jobtrackr-go/internal/repository"
)

var validStatuses = map[string]bool{
	model.StatusToApply:      true,
	model.StatusApplied:      true,
	model.StatusInterviewing: true,
	model.StatusOffer:        true,
	model.StatusRejected:     true,
}

// JobService handles job application business logic. Every call is scoped to
// the authenticated user.
type JobService struct {
	repo JobStore
}

// NewJobService creates a new JobService.
func NewJobService(repo JobStore) *JobService {
	return &JobService{repo: repo}
}

// List returns the user's jobs, newest first.
func (s *JobService) List(ctx context.Context, userID int64) ([]model.Job, error) {
	jobs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, serverError(err, "failed to fetch jobs")
	}
	return jobs, nil
}

// Get returns one job owned by userID.
func (s *JobService) Get(ctx context.Context, userID, id int64) (model.Job, error) {
	job, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return model.Job{}, translateJobErr(err, "failed to fetch job")
	}
	return *job, nil
}

// Create stores a new job and returns it with its server-assigned fields.
func (s *JobService) Create(ctx context.Context, userID int64, req model.JobRequest) (model.Job, error) {
	job, err := jobFromRequest(req)
	if err != nil {
		return model.Job{}, err
	}
	job.UserID = userID

	if err := s.repo.Create(ctx, &job); err != nil {
		return model.Job{}, serverError(err, "failed to create job")
	}
	return job, nil
}

// Update replaces a job's fields and returns the stored result.
func (s *JobService) Update(ctx context.Context, userID, id int64, req model.JobRequest) (model.Job, error) {
	job, err := jobFromRequest(req)
	if err != nil {
		return model.Job{}, err
	}

	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return model.Job{}, translateJobErr(err, "failed to update job")
	}

	job.ID = id
	job.UserID = userID
	if err := s.repo.Update(ctx, &job); err != nil {
		return model.Job{}, serverError(err, "failed to update job")
	}

	updated, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return model.Job{}, translateJobErr(err, "failed to update job")
	}
	return *updated, nil
}

// Delete removes a job owned by userID.
func (s *JobService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return translateJobErr(err, "failed to delete job")
	}
	return nil
}

func jobFromRequest(req model.JobRequest) (model.Job, error) {
	job := model.Job{
		Company:        strings.TrimSpace(req.Company),
		Title:          strings.TrimSpace(req.Title),
		Status:         req.Status,
		Notes:          req.Notes,
		JobDescription: req.JobDescription,
		AIAnalysis:     req.AIAnalysis,
		Deadline:       req.Deadline,
	}

	switch {
	case job.Company == "":
		return model.Job{}, ErrCompanyRequired
	case job.Title == "":
		return model.Job{}, ErrTitleRequired
	case strings.TrimSpace(job.JobDescription) == "":
		return model.Job{}, ErrJobDescriptionRequired
	}

	if job.Status == "" {
		job.Status = model.StatusApplied
	}
	if !validStatuses[job.Status] {
		return model.Job{}, ErrInvalidStatus
	}
	return job, nil
}

func translateJobErr(err error, msg string) error {
	if errors.Is(err, repository.ErrJobNotFound) {
		return ErrJobNotFound
	}
	return serverError(err, msg)
}
