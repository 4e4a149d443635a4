package service

import (
	"context"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

// ResumeService stores one resume text per user.
type ResumeService struct {
	repo ResumeStore
}

func NewResumeService(repo ResumeStore) *ResumeService {
	return &ResumeService{repo: repo}
}

// Get returns the stored text, empty when the user has none.
func (s *ResumeService) Get(ctx context.Context, userID int64) (model.ResumeResponse, error) {
	text, err := s.repo.Get(ctx, userID)
	if err != nil {
		return model.ResumeResponse{}, serverError(err, "failed to fetch resume")
	}
	return model.ResumeResponse{ResumeText: text}, nil
}

// Save replaces the stored text and returns it.
func (s *ResumeService) Save(ctx context.Context, userID int64, req model.ResumeRequest) (model.ResumeResponse, error) {
	if err := s.repo.Upsert(ctx, userID, req.ResumeText); err != nil {
		return model.ResumeResponse{}, serverError(err, "failed to save resume")
	}
	return model.ResumeResponse{ResumeText: req.ResumeText}, nil
}
