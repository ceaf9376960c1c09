// Package v1alpha1 defines the JSON types served by the docscan API.
package v1alpha1

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Detection is one labeled region on a page, bbox in pixel coordinates
// ordered x1, y1, x2, y2.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	BBox       [4]int  `json:"bbox"`
}

// QRCode is one decoded QR hit with its pixel-space corner polygon.
type QRCode struct {
	Text    string   `json:"text"`
	Polygon [][2]int `json:"polygon"`
}

// Page carries the per-page outcome. Artifact URLs are rooted at /media/
// and empty when the artifact was not produced.
type Page struct {
	PageName       string      `json:"page_name"`
	SourceURL      string      `json:"source_url,omitempty"`
	AnnotatedURL   string      `json:"annotated_url,omitempty"`
	HeatmapURL     string      `json:"heatmap_url,omitempty"`
	Detections     []Detection `json:"detections"`
	QRCodes        []QRCode    `json:"qr_codes"`
	RequiresReview bool        `json:"requires_review"`
}

// JobSummary reports per-category presence across the whole job.
type JobSummary struct {
	Signature bool `json:"signature"`
	Stamp     bool `json:"stamp"`
	QR        bool `json:"qr"`
}

type Job struct {
	JobID       string     `json:"job_id"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Summary     JobSummary `json:"summary"`
	Pages       []Page     `json:"pages"`
	Error       string     `json:"error,omitempty"`
}

type JobList = []Job

// Error is the uniform error body for non-2xx responses.
type Error struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
