package model

import "time"

// Job statuses used by the UI columns.
const (
	StatusToApply      = "To Apply"
	StatusApplied      = "Applied"
	StatusInterviewing = "Interviewing"
	StatusOffer        = "Offer"
	StatusRejected     = "Rejected"
)

// Job is a tracked application. IDs are assigned by the server.
type Job struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"-"`
	Company        string     `json:"company"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes"`
	JobDescription string     `json:"jobDescription"`
	AIAnalysis     *string    `json:"aiAnalysis"`
	Deadline       *time.Time `json:"deadline"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// JobRequest is the body of create and update calls.
type JobRequest struct {
	Company        string     `json:"company" validate:"required"`
	Title          string     `json:"title" validate:"required"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes"`
	JobDescription string     `json:"jobDescription" validate:"required"`
	AIAnalysis     *string    `json:"aiAnalysis"`
	Deadline       *time.Time `json:"deadline"`
}

// ResumeRequest replaces the stored resume text.
type ResumeRequest struct {
	ResumeText string `json:"resumeText"`
}

// ResumeResponse carries the stored resume text, empty when none exists.
type ResumeResponse struct {
	ResumeText string `json:"resumeText"`
}
