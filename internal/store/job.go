package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docscanhq/docscan/internal/store/model"
)

// Job is the registry of document processing jobs. The registry is volatile:
// records live for the process lifetime only and every operation runs under
// one registry-wide lock. Readers get snapshot copies, so a record obtained
// from Get or List never changes under the caller.
type Job interface {
	Create(ctx context.Context) (*model.JobRecord, error)
	Get(ctx context.Context, id string) (*model.JobRecord, error)
	List(ctx context.Context) ([]*model.JobRecord, error)
	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, pages []model.PageResult, summary model.CategoryCounts) error
	MarkFailed(ctx context.Context, id string, message string, pages []model.PageResult, summary model.CategoryCounts) error
}

// JobStore implements the Job interface
type JobStore struct {
	mu    sync.Mutex
	jobs  map[string]*model.JobRecord
	order []string
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

// NewJobStore creates a new in-memory job store
func NewJobStore() Job {
	return &JobStore{
		jobs: make(map[string]*model.JobRecord),
	}
}

// Create registers a fresh pending job under a newly assigned id.
func (s *JobStore) Create(ctx context.Context) (*model.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := model.NewJobRecord(uuid.New().String())
	s.jobs[record.ID] = record
	s.order = append(s.order, record.ID)

	return snapshot(record), nil
}

// Get retrieves a job by id.
func (s *JobStore) Get(ctx context.Context, id string) (*model.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.jobs[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return snapshot(record), nil
}

// List returns all jobs in creation order.
func (s *JobStore) List(ctx context.Context) ([]*model.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*model.JobRecord, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, snapshot(s.jobs[id]))
	}
	return records, nil
}

// MarkRunning transitions a pending job to running.
func (s *JobStore) MarkRunning(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.jobs[id]
	if !ok {
		return ErrRecordNotFound
	}
	if record.Status != model.JobStatusPending {
		return NewErrInvalidTransition(record.Status, model.JobStatusRunning)
	}
	record.Status = model.JobStatusRunning

	return nil
}

// MarkCompleted transitions a running job to completed, attaching the page
// results and summary counts, and stamps the completion time exactly once.
func (s *JobStore) MarkCompleted(ctx context.Context, id string, pages []model.PageResult, summary model.CategoryCounts) error {
	return s.finish(id, model.JobStatusCompleted, "", pages, summary)
}

// MarkFailed transitions a running job to failed, recording the error
// message. Pages processed before the failure stay attached to the record.
func (s *JobStore) MarkFailed(ctx context.Context, id string, message string, pages []model.PageResult, summary model.CategoryCounts) error {
	return s.finish(id, model.JobStatusFailed, message, pages, summary)
}

func (s *JobStore) finish(id string, status model.JobStatus, message string, pages []model.PageResult, summary model.CategoryCounts) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.jobs[id]
	if !ok {
		return ErrRecordNotFound
	}
	if record.Status != model.JobStatusRunning {
		return NewErrInvalidTransition(record.Status, status)
	}

	now := time.Now().UTC()
	record.Status = status
	record.Error = message
	record.Pages = pages
	record.Summary = summary
	record.CompletedAt = &now

	return nil
}

// snapshot copies a record so callers never observe later transitions.
// Page results are immutable once attached, sharing the slice is safe.
func snapshot(record *model.JobRecord) *model.JobRecord {
	clone := *record
	if record.CompletedAt != nil {
		completedAt := *record.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return &clone
}
