package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/docscanhq/docscan/internal/pipeline"
	"github.com/docscanhq/docscan/internal/store"
	"github.com/docscanhq/docscan/internal/store/model"
)

const uploadSpoolDir = "uploads"

// JobService accepts document uploads, registers jobs, and hands them to the
// pipeline for asynchronous processing.
type JobService struct {
	store     store.Store
	pipeline  *pipeline.Orchestrator
	mediaRoot string
}

func NewJobService(store store.Store, pipeline *pipeline.Orchestrator, mediaRoot string) *JobService {
	return &JobService{
		store:     store,
		pipeline:  pipeline,
		mediaRoot: mediaRoot,
	}
}

// CreateJob spools the upload to disk, registers a pending job, and launches
// processing in the background. The returned record is the pending snapshot;
// callers poll GetJob for progress.
func (s *JobService) CreateJob(ctx context.Context, filename string, payload io.Reader) (*model.JobRecord, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, NewErrMissingFilename()
	}

	spoolDir := filepath.Join(s.mediaRoot, uploadSpoolDir, uuid.NewString())
	uploadPath := filepath.Join(spoolDir, base)
	if err := spoolUpload(uploadPath, payload); err != nil {
		_ = os.RemoveAll(spoolDir)
		return nil, err
	}

	record, err := s.store.Job().Create(ctx)
	if err != nil {
		_ = os.RemoveAll(spoolDir)
		return nil, err
	}

	zap.S().Named("service").Infow("accepted upload", "job_id", record.ID, "filename", base)
	s.pipeline.Launch(record.ID, uploadPath)

	return record, nil
}

// GetJob returns a snapshot of one job.
func (s *JobService) GetJob(ctx context.Context, id string) (*model.JobRecord, error) {
	record, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return record, nil
}

// ListJobs returns snapshots of all jobs, newest first.
func (s *JobService) ListJobs(ctx context.Context) ([]*model.JobRecord, error) {
	records, err := s.store.Job().List(ctx)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func spoolUpload(path string, payload io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pkgerrors.Wrap(err, "creating upload spool directory")
	}

	file, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "creating spool file %s", path)
	}

	if _, err := io.Copy(file, payload); err != nil {
		_ = file.Close()
		return pkgerrors.Wrapf(err, "writing upload %s", path)
	}
	return file.Close()
}
