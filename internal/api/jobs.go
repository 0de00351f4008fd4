package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/recap/internal/report"
)

type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job tracks one analysis run from submission to artifact. Jobs live in
// memory only; a restart forgets them, but the written report files survive.
type Job struct {
	ID         uuid.UUID      `json:"id"`
	Status     JobStatus      `json:"status"`
	Channel    string         `json:"channel"`
	Period     string         `json:"period"`
	CreatedAt  time.Time      `json:"created_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Error      string         `json:"error,omitempty"`
	JSONPath   string         `json:"json_path,omitempty"`
	HTMLPath   string         `json:"html_path,omitempty"`
	Report     *report.Report `json:"report,omitempty"`
}

type jobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*Job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[uuid.UUID]*Job)}
}

func (s *jobStore) create(channel, period string) *Job {
	j := &Job{
		ID:        uuid.New(),
		Status:    JobRunning,
		Channel:   channel,
		Period:    period,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()
	return j
}

// get returns a snapshot so callers never read a job the worker goroutine is
// still mutating.
func (s *jobStore) get(id uuid.UUID) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

func (s *jobStore) finish(id uuid.UUID, rep *report.Report, jsonPath, htmlPath string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = JobDone
		j.FinishedAt = &now
		j.Report = rep
		j.JSONPath = jsonPath
		j.HTMLPath = htmlPath
	}
}

func (s *jobStore) fail(id uuid.UUID, errMsg string) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = JobFailed
		j.FinishedAt = &now
		j.Error = errMsg
	}
}
