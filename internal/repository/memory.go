package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

// MemoryStore is an in-process implementation of the user, job and resume
// repositories with the same observable semantics as the MySQL ones, including
// the email uniqueness constraint. It backs STORE=memory and the tests.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*model.User
	byEmail map[string]int64
	nextJob int64
	jobs    map[int64]*model.Job
	resumes map[int64]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[int64]*model.User),
		byEmail: make(map[string]int64),
		jobs:    make(map[int64]*model.Job),
		resumes: make(map[int64]string),
	}
}

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() *MemoryUserRepository { return &MemoryUserRepository{s: s} }

// Jobs returns the job repository view of the store.
func (s *MemoryStore) Jobs() *MemoryJobRepository { return &MemoryJobRepository{s: s} }

// Resumes returns the resume repository view of the store.
func (s *MemoryStore) Resumes() *MemoryResumeRepository { return &MemoryResumeRepository{s: s} }

// MemoryUserRepository mirrors UserRepository.
type MemoryUserRepository struct{ s *MemoryStore }

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}

	now := time.Now().UTC()
	r.s.nextID++
	user.ID = r.s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now

	r.s.users[user.ID] = cloneUser(user)
	r.s.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) SetResetToken(_ context.Context, userID int64, digest string, expires time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	exp := expires.UTC()
	u.ResetTokenHash = &digest
	u.ResetTokenExpires = &exp
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepository) GetByResetToken(_ context.Context, digest string, now time.Time) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if resetTokenMatches(u, digest, now) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrResetTokenNotFound
}

func (r *MemoryUserRepository) ConsumeResetToken(_ context.Context, userID int64, digest string, now time.Time, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok || !resetTokenMatches(u, digest, now) {
		return ErrResetTokenNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpires = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func resetTokenMatches(u *model.User, digest string, now time.Time) bool {
	return u.ResetTokenHash != nil && *u.ResetTokenHash == digest &&
		u.ResetTokenExpires != nil && u.ResetTokenExpires.After(now)
}

func cloneUser(u *model.User) *model.User {
	cp := *u
	if u.ResetTokenHash != nil {
		h := *u.ResetTokenHash
		cp.ResetTokenHash = &h
	}
	if u.ResetTokenExpires != nil {
		e := *u.ResetTokenExpires
		cp.ResetTokenExpires = &e
	}
	return &cp
}

// MemoryJobRepository mirrors JobRepository.
type MemoryJobRepository struct{ s *MemoryStore }

func (r *MemoryJobRepository) ListByUser(_ context.Context, userID int64) ([]model.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	jobs := []model.Job{}
	for _, j := range r.s.jobs {
		if j.UserID == userID {
			jobs = append(jobs, *j)
		}
	}
	sort.Slice(jobs, func(a, b int) bool {
		if jobs[a].CreatedAt.Equal(jobs[b].CreatedAt) {
			return jobs[a].ID > jobs[b].ID
		}
		return jobs[a].CreatedAt.After(jobs[b].CreatedAt)
	})
	return jobs, nil
}

func (r *MemoryJobRepository) GetByID(_ context.Context, userID, id int64) (*model.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok || j.UserID != userID {
		return nil, ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *MemoryJobRepository) Create(_ context.Context, job *model.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	r.s.nextJob++
	job.ID = r.s.nextJob
	job.CreatedAt = now
	job.UpdatedAt = now

	cp := *job
	r.s.jobs[job.ID] = &cp
	return nil
}

func (r *MemoryJobRepository) Update(_ context.Context, job *model.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.jobs[job.ID]
	if !ok || existing.UserID != job.UserID {
		return nil
	}
	cp := *job
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	r.s.jobs[job.ID] = &cp
	return nil
}

func (r *MemoryJobRepository) Delete(_ context.Context, userID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok || j.UserID != userID {
		return ErrJobNotFound
	}
	delete(r.s.jobs, id)
	return nil
}

// MemoryResumeRepository mirrors ResumeRepository.
type MemoryResumeRepository struct{ s *MemoryStore }

func (r *MemoryResumeRepository) Get(_ context.Context, userID int64) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.resumes[userID], nil
}

func (r *MemoryResumeRepository) Upsert(_ context.Context, userID int64, text string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.resumes[userID] = text
	return nil
}
