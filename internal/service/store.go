package service

import (
	"context"
	"time"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

// UserStore is the persistence the auth and reset services need. Both
// repository.UserRepository and repository.MemoryUserRepository satisfy it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	SetResetToken(ctx context.Context, userID int64, digest string, expires time.Time) error
	GetByResetToken(ctx context.Context, digest string, now time.Time) (*model.User, error)
	ConsumeResetToken(ctx context.Context, userID int64, digest string, now time.Time, passwordHash string) error
}

type JobStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Job, error)
	GetByID(ctx context.Context, userID, id int64) (*model.Job, error)
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, userID, id int64) error
}

type ResumeStore interface {
	Get(ctx context.Context, userID int64) (string, error)
	Upsert(ctx context.Context, userID int64, text string) error
}
