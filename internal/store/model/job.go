package model

import (
	"time"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/qr"
)

// JobStatus is the lifecycle state of a processing job. A job starts pending,
// moves to running when the pipeline picks it up, and ends in exactly one of
// the terminal states. Terminal states never change again.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CategoryCounts tallies accepted hits per detection category across all
// pages of a job.
type CategoryCounts struct {
	Signature int
	Stamp     int
	QR        int
}

// PageResult captures everything the pipeline produced for a single page
// image. Results are immutable once attached to a job. Artifact paths are
// relative to the media root.
type PageResult struct {
	Name           string
	SourcePath     string
	AnnotatedPath  string
	HeatmapPath    string
	Detections     []detection.Box
	QRCodes        []qr.Detection
	RequiresReview bool
}

// JobRecord is one document processing job in the registry.
type JobRecord struct {
	ID          string
	Status      JobStatus
	Pages       []PageResult
	Summary     CategoryCounts
	Error       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// NewJobRecord returns a pending job with all counters explicitly zeroed.
func NewJobRecord(id string) *JobRecord {
	return &JobRecord{
		ID:        id,
		Status:    JobStatusPending,
		Pages:     []PageResult{},
		Summary:   CategoryCounts{Signature: 0, Stamp: 0, QR: 0},
		CreatedAt: time.Now().UTC(),
	}
}
