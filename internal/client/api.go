package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jobtrackr/jobtrackr-go/internal/apperr"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

// API is an HTTP client for the JobTrackr REST surface. Once a token is set it
// is sent as a Bearer credential on every call.
type API struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewAPI returns a client for the server at baseURL. A nil hc gets a client
// with a 15s timeout.
func NewAPI(baseURL string, hc *http.Client) *API {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (a *API) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *API) Register(ctx context.Context, req model.CreateUserRequest) (model.AuthResponse, error) {
	var resp model.AuthResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/register", req, &resp)
	return resp, err
}

func (a *API) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	var resp model.AuthResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/login", req, &resp)
	return resp, err
}

func (a *API) Me(ctx context.Context) (model.UserResponse, error) {
	var resp model.MeResponse
	err := a.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp)
	return resp.User, err
}

func (a *API) ForgotPassword(ctx context.Context, email string) (model.ResetResponse, error) {
	var resp model.ResetResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/forgot-password", model.ForgotPasswordRequest{Email: email}, &resp)
	return resp, err
}

func (a *API) ResetPassword(ctx context.Context, token, newPassword string) (model.ResetResponse, error) {
	var resp model.ResetResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/reset-password",
		model.ResetPasswordRequest{Token: token, NewPassword: newPassword}, &resp)
	return resp, err
}

func (a *API) ListJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	err := a.do(ctx, http.MethodGet, "/api/jobs", nil, &jobs)
	return jobs, err
}

func (a *API) CreateJob(ctx context.Context, req model.JobRequest) (model.Job, error) {
	var job model.Job
	err := a.do(ctx, http.MethodPost, "/api/jobs", req, &job)
	return job, err
}

func (a *API) UpdateJob(ctx context.Context, id int64, req model.JobRequest) (model.Job, error) {
	var job model.Job
	err := a.do(ctx, http.MethodPut, "/api/jobs/"+strconv.FormatInt(id, 10), req, &job)
	return job, err
}

func (a *API) DeleteJob(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, "/api/jobs/"+strconv.FormatInt(id, 10), nil, nil)
}

func (a *API) GetResume(ctx context.Context) (string, error) {
	var resp model.ResumeResponse
	err := a.do(ctx, http.MethodGet, "/api/resume", nil, &resp)
	return resp.ResumeText, err
}

func (a *API) SaveResume(ctx context.Context, text string) (string, error) {
	var resp model.ResumeResponse
	err := a.do(ctx, http.MethodPut, "/api/resume", model.ResumeRequest{ResumeText: text}, &resp)
	return resp.ResumeText, err
}

func (a *API) Analyze(ctx context.Context, req model.AnalyzeRequest) (model.Analysis, error) {
	var resp model.Analysis
	err := a.do(ctx, http.MethodPost, "/ai/analyze", req, &resp)
	return resp, err
}

func (a *API) CoverLetter(ctx context.Context, jobDescription string) (string, error) {
	var resp model.CoverLetterResponse
	err := a.do(ctx, http.MethodPost, "/ai/cover-letter", model.CoverLetterRequest{JobDescription: jobDescription}, &resp)
	return resp.CoverLetter, err
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// do sends one request. Non-2xx answers become *apperr.Error values whose kind
// follows the status code.
func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := a.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return apperr.Wrap(err, apperr.KindServer, "server unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb)
		if eb.Error == "" {
			eb.Error = http.StatusText(resp.StatusCode)
		}
		e := apperr.New(apperr.FromStatus(resp.StatusCode), eb.Error)
		if len(eb.Details) > 0 {
			e = e.WithDetails(eb.Details...)
		}
		return e
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(err, apperr.KindServer, "invalid server response")
	}
	return nil
}
