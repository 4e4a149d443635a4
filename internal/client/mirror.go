// Package client is the JobTrackr client library: an HTTP API client, durable
// session storage and Mirror, a local copy of the server's state that
// republishes full snapshots to subscribers.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

// ErrSessionChanged is returned when the session was ended or replaced while
// a call was in flight. The response is discarded.
var ErrSessionChanged = errors.New("session changed during request")

// Keys of the two session artifacts kept in the Store.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Remote is the server surface Mirror needs. *API implements it.
type Remote interface {
	SetToken(token string)
	Register(ctx context.Context, req model.CreateUserRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
	CreateJob(ctx context.Context, req model.JobRequest) (model.Job, error)
	UpdateJob(ctx context.Context, id int64, req model.JobRequest) (model.Job, error)
	DeleteJob(ctx context.Context, id int64) error
	GetResume(ctx context.Context) (string, error)
	SaveResume(ctx context.Context, text string) (string, error)
}

// Snapshot is the complete client view at one instant. Subscribers receive
// their own deep copy.
type Snapshot struct {
	User   *model.UserResponse
	Jobs   []model.Job
	Resume string
}

// LoggedIn reports whether the snapshot has an identity.
func (s Snapshot) LoggedIn() bool { return s.User != nil }

func (s Snapshot) clone() Snapshot {
	cp := Snapshot{Resume: s.Resume}
	if s.User != nil {
		u := *s.User
		cp.User = &u
	}
	if s.Jobs != nil {
		cp.Jobs = make([]model.Job, len(s.Jobs))
		for i, j := range s.Jobs {
			cp.Jobs[i] = cloneJob(j)
		}
	}
	return cp
}

func cloneJob(j model.Job) model.Job {
	if j.Notes != nil {
		n := *j.Notes
		j.Notes = &n
	}
	if j.AIAnalysis != nil {
		a := *j.AIAnalysis
		j.AIAnalysis = &a
	}
	if j.Deadline != nil {
		d := *j.Deadline
		j.Deadline = &d
	}
	return j
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Mirror holds the local copy of the signed-in user's identity, jobs and
// resume. It never guesses: state changes only with what the server returned,
// and a failed call leaves the snapshot as it was.
//
// Every change publishes the whole snapshot to all subscribers, in
// registration order. Callbacks run synchronously on the mutating goroutine
// and must not call back into the Mirror. Concurrent mutations are not
// serialized against each other; the last response applied wins. Responses
// that arrive after the session was started, restored or ended again are
// dropped.
type Mirror struct {
	remote Remote
	store  Store

	mu     sync.Mutex // guards snap, subs, nextID, gen
	snap   Snapshot
	subs   []subscriber
	nextID int
	gen    uint64

	pubMu sync.Mutex // serializes delivery so subscribers see snapshots in order
}

func NewMirror(remote Remote, store Store) *Mirror {
	return &Mirror{remote: remote, store: store}
}

// Snapshot returns a copy of the current state.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.clone()
}

// Subscribe registers fn, calls it immediately with the current snapshot and
// again after every change. The returned func removes the subscription.
func (m *Mirror) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	snap := m.snap.clone()
	m.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.subs = slices.DeleteFunc(m.subs, func(s subscriber) bool { return s.id == id })
		})
	}
}

// generation identifies the current session.
func (m *Mirror) generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// reset replaces the whole snapshot and starts a new generation.
func (m *Mirror) reset(snap Snapshot) {
	m.publish(func(s *Snapshot) bool {
		m.gen++
		*s = snap
		return true
	})
}

// apply mutates the snapshot if the session is still gen, and publishes the
// result. It reports whether fn ran.
func (m *Mirror) apply(gen uint64, fn func(*Snapshot)) bool {
	return m.publish(func(s *Snapshot) bool {
		if m.gen != gen {
			return false
		}
		fn(s)
		return true
	})
}

// publish runs fn under the lock; if fn reports a change, every subscriber
// gets a copy of the new snapshot.
func (m *Mirror) publish(fn func(*Snapshot) bool) bool {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	if !fn(&m.snap) {
		m.mu.Unlock()
		return false
	}
	snap := m.snap.clone()
	subs := slices.Clone(m.subs)
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(snap.clone())
	}
	return true
}

// Register creates an account and signs in as it.
func (m *Mirror) Register(ctx context.Context, name, email, password string) (model.UserResponse, error) {
	resp, err := m.remote.Register(ctx, model.CreateUserRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return model.UserResponse{}, err
	}
	if err := m.startSession(ctx, resp); err != nil {
		return model.UserResponse{}, err
	}
	return resp.User, nil
}

// Login signs in and persists the session.
func (m *Mirror) Login(ctx context.Context, email, password string) (model.UserResponse, error) {
	resp, err := m.remote.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return model.UserResponse{}, err
	}
	if err := m.startSession(ctx, resp); err != nil {
		return model.UserResponse{}, err
	}
	return resp.User, nil
}

func (m *Mirror) startSession(ctx context.Context, resp model.AuthResponse) error {
	user, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	if err := m.store.Set(ctx, KeyToken, []byte(resp.Token)); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	if err := m.store.Set(ctx, KeyUser, user); err != nil {
		_ = m.store.Delete(ctx, KeyToken)
		return fmt.Errorf("saving identity: %w", err)
	}

	m.remote.SetToken(resp.Token)
	u := resp.User
	m.reset(Snapshot{User: &u})
	return nil
}

// Restore resumes a persisted session. Both artifacts must be present and the
// identity must parse; otherwise both are purged, the snapshot is emptied and
// Restore reports false.
func (m *Mirror) Restore(ctx context.Context) (bool, error) {
	token, tokenErr := m.store.Get(ctx, KeyToken)
	raw, userErr := m.store.Get(ctx, KeyUser)

	for _, err := range []error{tokenErr, userErr} {
		if err != nil && !errors.Is(err, ErrKeyNotFound) {
			return false, fmt.Errorf("reading session: %w", err)
		}
	}

	var user model.UserResponse
	valid := tokenErr == nil && userErr == nil &&
		strings.TrimSpace(string(token)) != "" &&
		json.Unmarshal(raw, &user) == nil && user.ID > 0

	if !valid {
		m.remote.SetToken("")
		m.reset(Snapshot{})
		if err := m.purgeSession(ctx); err != nil {
			return false, err
		}
		return false, nil
	}

	m.remote.SetToken(string(token))
	m.reset(Snapshot{User: &user})
	return true, nil
}

func (m *Mirror) purgeSession(ctx context.Context) error {
	if err := m.store.Delete(ctx, KeyToken); err != nil {
		return fmt.Errorf("purging token: %w", err)
	}
	if err := m.store.Delete(ctx, KeyUser); err != nil {
		return fmt.Errorf("purging identity: %w", err)
	}
	return nil
}

// Logout erases the persisted session and every mirrored collection.
func (m *Mirror) Logout(ctx context.Context) error {
	m.remote.SetToken("")
	err := m.store.Clear(ctx)
	m.reset(Snapshot{})
	if err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	return nil
}

// BootstrapJobs loads the job list. An empty list is seeded with one sample
// job on the server, and the server's copy becomes the only entry.
func (m *Mirror) BootstrapJobs(ctx context.Context) ([]model.Job, error) {
	gen := m.generation()
	jobs, err := m.remote.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	if len(jobs) == 0 {
		if m.generation() != gen {
			return nil, ErrSessionChanged
		}
		created, err := m.remote.CreateJob(ctx, SampleJob())
		if err != nil {
			return nil, err
		}
		jobs = []model.Job{created}
	}

	if !m.apply(gen, func(s *Snapshot) { s.Jobs = jobs }) {
		return nil, ErrSessionChanged
	}
	return m.Snapshot().Jobs, nil
}

// BootstrapResume loads the resume text, storing SampleResume when the server
// has none.
func (m *Mirror) BootstrapResume(ctx context.Context) (string, error) {
	gen := m.generation()
	text, err := m.remote.GetResume(ctx)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		if m.generation() != gen {
			return "", ErrSessionChanged
		}
		text, err = m.remote.SaveResume(ctx, SampleResume)
		if err != nil {
			return "", err
		}
	}

	if !m.apply(gen, func(s *Snapshot) { s.Resume = text }) {
		return "", ErrSessionChanged
	}
	return text, nil
}

// CreateJob adds a job on the server and mirrors the stored result.
func (m *Mirror) CreateJob(ctx context.Context, req model.JobRequest) (model.Job, error) {
	gen := m.generation()
	job, err := m.remote.CreateJob(ctx, req)
	if err != nil {
		return model.Job{}, err
	}

	if !m.apply(gen, func(s *Snapshot) {
		s.Jobs = append([]model.Job{job}, s.Jobs...)
	}) {
		return model.Job{}, ErrSessionChanged
	}
	return job, nil
}

// UpdateJob replaces the mirrored job with the server's updated copy.
func (m *Mirror) UpdateJob(ctx context.Context, id int64, req model.JobRequest) (model.Job, error) {
	gen := m.generation()
	job, err := m.remote.UpdateJob(ctx, id, req)
	if err != nil {
		return model.Job{}, err
	}

	applied := m.apply(gen, func(s *Snapshot) {
		i := slices.IndexFunc(s.Jobs, func(j model.Job) bool { return j.ID == job.ID })
		if i < 0 {
			s.Jobs = append(s.Jobs, job)
			return
		}
		s.Jobs = slices.Clone(s.Jobs)
		s.Jobs[i] = job
	})
	if !applied {
		return model.Job{}, ErrSessionChanged
	}
	return job, nil
}

// DeleteJob removes a job on the server, then locally.
func (m *Mirror) DeleteJob(ctx context.Context, id int64) error {
	gen := m.generation()
	if err := m.remote.DeleteJob(ctx, id); err != nil {
		return err
	}

	if !m.apply(gen, func(s *Snapshot) {
		s.Jobs = slices.DeleteFunc(slices.Clone(s.Jobs), func(j model.Job) bool { return j.ID == id })
	}) {
		return ErrSessionChanged
	}
	return nil
}

// SaveResume stores text on the server and mirrors what it returned.
func (m *Mirror) SaveResume(ctx context.Context, text string) (string, error) {
	gen := m.generation()
	saved, err := m.remote.SaveResume(ctx, text)
	if err != nil {
		return "", err
	}

	if !m.apply(gen, func(s *Snapshot) { s.Resume = saved }) {
		return "", ErrSessionChanged
	}
	return saved, nil
}
