// Package pipeline drives one document job end to end: page preparation,
// detection, QR reading, artifact rendering and the job state transitions.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/docscanhq/docscan/internal/annotate"
	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/detector"
	"github.com/docscanhq/docscan/internal/document"
	"github.com/docscanhq/docscan/internal/heatmap"
	"github.com/docscanhq/docscan/internal/imaging"
	"github.com/docscanhq/docscan/internal/qr"
	"github.com/docscanhq/docscan/internal/rasterize"
	"github.com/docscanhq/docscan/internal/store"
	"github.com/docscanhq/docscan/internal/store/model"
	"github.com/docscanhq/docscan/pkg/metrics"
)

// Options carries the pipeline knobs resolved from configuration at startup.
type Options struct {
	MediaRoot           string
	ConfidenceThreshold float64
	EnableHeatmap       bool
	HeatmapSigmaScale   float64
	Review              detection.ReviewThresholds
}

// Orchestrator runs jobs against its collaborators. Pages within a job are
// processed strictly in order; concurrency exists only across jobs, one
// goroutine per launched job.
type Orchestrator struct {
	store      store.Store
	detector   detector.Detector
	qrChain    *qr.Chain
	rasterizer rasterize.Rasterizer
	opts       Options
}

func NewOrchestrator(s store.Store, d detector.Detector, c *qr.Chain, r rasterize.Rasterizer, opts Options) *Orchestrator {
	return &Orchestrator{
		store:      s,
		detector:   d,
		qrChain:    c,
		rasterizer: r,
		opts:       opts,
	}
}

// jobRun accumulates the results of one job while it executes. Pages
// processed before a failure stay in here and are attached to the failed
// record.
type jobRun struct {
	pages      []model.PageResult
	summary    model.CategoryCounts
	unreadable int
}

// Launch fires the job in the background. Errors are terminal for the job
// and are recorded on its record before they surface here, so logging is all
// that is left to do.
func (o *Orchestrator) Launch(jobID, uploadPath string) {
	go func() {
		if err := o.Process(context.Background(), jobID, uploadPath); err != nil {
			zap.S().Named("pipeline").Errorw("job failed", "job", jobID, "error", err)
		}
	}()
}

// Process runs the job to a terminal state. On failure the record is
// transitioned and the message stored before the error is returned.
func (o *Orchestrator) Process(ctx context.Context, jobID, uploadPath string) error {
	logger := zap.S().Named("pipeline")

	if err := o.store.Job().MarkRunning(ctx, jobID); err != nil {
		return errors.Wrapf(err, "starting job %s", jobID)
	}

	run := &jobRun{pages: []model.PageResult{}}
	if err := o.execute(ctx, jobID, uploadPath, run); err != nil {
		if storeErr := o.store.Job().MarkFailed(ctx, jobID, err.Error(), run.pages, run.summary); storeErr != nil {
			logger.Errorw("recording job failure", "job", jobID, "error", storeErr)
		}
		metrics.IncreaseJobsTotalMetric(string(model.JobStatusFailed))
		return err
	}

	if err := o.store.Job().MarkCompleted(ctx, jobID, run.pages, run.summary); err != nil {
		return errors.Wrapf(err, "completing job %s", jobID)
	}
	metrics.IncreaseJobsTotalMetric(string(model.JobStatusCompleted))

	logger.Infow("job completed", "job", jobID, "pages", len(run.pages),
		"signatures", run.summary.Signature, "stamps", run.summary.Stamp, "qr", run.summary.QR)
	return nil
}

type jobDirs struct {
	input     string
	pages     string
	annotated string
	heatmaps  string
	unzipped  string
}

func (o *Orchestrator) execute(ctx context.Context, jobID, uploadPath string, run *jobRun) error {
	jobDir := filepath.Join(o.opts.MediaRoot, "jobs", jobID)
	dirs := jobDirs{
		input:     filepath.Join(jobDir, "input"),
		pages:     filepath.Join(jobDir, "pages"),
		annotated: filepath.Join(jobDir, "annotated"),
		heatmaps:  filepath.Join(jobDir, "heatmaps"),
		unzipped:  filepath.Join(jobDir, "unzipped"),
	}
	for _, dir := range []string{dirs.input, dirs.pages, dirs.annotated, dirs.heatmaps} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating job directory %s", dir)
		}
	}

	inputPath := filepath.Join(dirs.input, filepath.Base(uploadPath))
	if err := document.MoveFile(uploadPath, inputPath); err != nil {
		return errors.Wrap(err, "storing job input")
	}
	// Drops the per-job spool directory once the upload has moved in. The
	// remove is a no-op when the upload came from a shared directory.
	_ = os.Remove(filepath.Dir(uploadPath))

	pages, err := o.preparePages(ctx, inputPath, dirs)
	if err != nil {
		return err
	}
	zap.S().Named("pipeline").Infow("job prepared", "job", jobID, "pages", len(pages))

	for _, pagePath := range pages {
		if err := o.processPage(ctx, pagePath, dirs, run); err != nil {
			return err
		}
	}

	if len(run.pages) == 0 && run.unreadable > 0 {
		return errors.New("no readable pages in job input")
	}
	return nil
}

// preparePages turns the stored input into page images under the pages
// directory and returns them in natural order of their relative paths.
func (o *Orchestrator) preparePages(ctx context.Context, inputPath string, dirs jobDirs) ([]string, error) {
	var pages []string

	switch document.Classify(inputPath) {
	case document.KindPDF:
		rendered, err := o.rasterizer.Rasterize(ctx, inputPath, filepath.Join(dirs.pages, stem(inputPath)))
		if err != nil {
			return nil, err
		}
		pages = rendered

	case document.KindImage:
		target := filepath.Join(dirs.pages, filepath.Base(inputPath))
		if err := document.CopyFile(inputPath, target); err != nil {
			return nil, err
		}
		pages = []string{target}

	case document.KindArchive:
		if err := document.ExtractZip(inputPath, dirs.unzipped); err != nil {
			return nil, err
		}
		members, err := document.SupportedFiles(dirs.unzipped)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			switch document.Classify(member) {
			case document.KindPDF:
				rendered, err := o.rasterizer.Rasterize(ctx, member, filepath.Join(dirs.pages, stem(member)))
				if err != nil {
					return nil, err
				}
				pages = append(pages, rendered...)
			case document.KindImage:
				target := filepath.Join(dirs.pages, filepath.Base(member))
				if err := document.CopyFile(member, target); err != nil {
					return nil, err
				}
				pages = append(pages, target)
			}
		}

	default:
		return nil, document.NewErrUnsupportedType(inputPath)
	}

	document.SortByRelPath(pages, dirs.pages)
	return pages, nil
}

// processPage runs detection and artifact rendering for one page and appends
// its result to the run. An unreadable page is skipped with a warning; every
// other failure aborts the job.
func (o *Orchestrator) processPage(ctx context.Context, pagePath string, dirs jobDirs, run *jobRun) error {
	logger := zap.S().Named("pipeline")
	start := time.Now()

	img, err := imaging.Load(pagePath)
	if err != nil {
		run.unreadable++
		logger.Warnw("skipping unreadable page", "page", pagePath, "error", err)
		return nil
	}

	boxes, err := o.detector.Detect(ctx, pagePath, o.opts.ConfidenceThreshold)
	if err != nil {
		return errors.Wrapf(err, "detecting regions on %s", filepath.Base(pagePath))
	}
	boxes = detection.SuppressOverlaps(boxes)

	bounds := img.Bounds()
	qrHits := o.qrChain.Read(ctx, pagePath, bounds.Dx(), bounds.Dy())

	rel, err := filepath.Rel(dirs.pages, pagePath)
	if err != nil {
		rel = filepath.Base(pagePath)
	}

	annotatedPath := filepath.Join(dirs.annotated, rel)
	if err := imaging.Write(annotatedPath, annotate.Render(img, boxes, qrHits)); err != nil {
		return err
	}

	heatmapPath := ""
	if o.opts.EnableHeatmap {
		heatmapPath = filepath.Join(dirs.heatmaps, rel)
		if err := imaging.Write(heatmapPath, heatmap.Generate(img, boxes, qrHits, o.opts.HeatmapSigmaScale)); err != nil {
			return err
		}
	}

	for _, b := range boxes {
		switch b.Label {
		case detection.LabelSignature:
			run.summary.Signature++
		case detection.LabelStamp:
			run.summary.Stamp++
		case detection.LabelQR:
			run.summary.QR++
		}
		metrics.IncreaseDetectionsTotalMetric(b.Label, 1)
	}
	run.summary.QR += len(qrHits)
	if len(qrHits) > 0 {
		metrics.IncreaseDetectionsTotalMetric(detection.LabelQR, len(qrHits))
	}

	run.pages = append(run.pages, model.PageResult{
		Name:           filepath.Base(pagePath),
		SourcePath:     o.mediaRel(pagePath),
		AnnotatedPath:  o.mediaRel(annotatedPath),
		HeatmapPath:    o.mediaRelIfSet(heatmapPath),
		Detections:     boxes,
		QRCodes:        qrHits,
		RequiresReview: detection.NeedsReview(boxes, len(qrHits), o.opts.Review),
	})

	metrics.IncreasePagesProcessedMetric()
	metrics.ObservePageDurationMetric(time.Since(start).Seconds())
	return nil
}

// mediaRel rebases an absolute artifact path onto the media root, using
// forward slashes. Handlers turn these into /media/ URLs verbatim.
func (o *Orchestrator) mediaRel(path string) string {
	rel, err := filepath.Rel(o.opts.MediaRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (o *Orchestrator) mediaRelIfSet(path string) string {
	if path == "" {
		return ""
	}
	return o.mediaRel(path)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
