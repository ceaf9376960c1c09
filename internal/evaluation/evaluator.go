package evaluation

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/detector"
	"github.com/docscanhq/docscan/internal/imaging"
	"github.com/docscanhq/docscan/internal/qr"
	"github.com/docscanhq/docscan/pkg/geometry"
)

// Categories, in report order.
var categories = []string{
	detection.LabelSignature,
	detection.LabelStamp,
	detection.LabelQR,
}

// CategoryResult is the scored outcome for one category.
type CategoryResult struct {
	Category  string  `json:"category"`
	TP        int     `json:"tp"`
	FP        int     `json:"fp"`
	FN        int     `json:"fn"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report aggregates the evaluation over every annotated page.
type Report struct {
	IoUThreshold        float64          `json:"iou_threshold"`
	ConfidenceThreshold float64          `json:"confidence_threshold"`
	PagesEvaluated      int              `json:"pages_evaluated"`
	PagesSkipped        int              `json:"pages_skipped"`
	Categories          []CategoryResult `json:"categories"`
}

// WriteTable prints the report as an aligned table.
func (r *Report) WriteTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTP\tFP\tFN\tPRECISION\tRECALL\tF1\tSUPPORT")
	for _, c := range r.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.3f\t%.3f\t%.3f\t%d\n",
			c.Category, c.TP, c.FP, c.FN, c.Precision, c.Recall, c.F1, c.Support)
	}
	tw.Flush()
	fmt.Fprintf(w, "\npages evaluated: %d, skipped: %d (iou >= %.2f, confidence >= %.2f)\n",
		r.PagesEvaluated, r.PagesSkipped, r.IoUThreshold, r.ConfidenceThreshold)
}

// Evaluator scores the detector and QR chain against ground truth.
type Evaluator struct {
	detector detector.Detector
	qrChain  *qr.Chain
	conf     float64
	iou      float64
}

func New(d detector.Detector, c *qr.Chain, confidenceThreshold, iouThreshold float64) *Evaluator {
	return &Evaluator{
		detector: d,
		qrChain:  c,
		conf:     confidenceThreshold,
		iou:      iouThreshold,
	}
}

// Run evaluates every annotated page found under imagesRoot. Pages whose
// rendered image is missing or unreadable are skipped with a warning;
// detector failures abort the run.
func (e *Evaluator) Run(ctx context.Context, annotationsPath, imagesRoot string) (*Report, error) {
	gt, err := LoadGroundTruth(annotationsPath)
	if err != nil {
		return nil, err
	}

	logger := zap.S().Named("evaluation")
	totals := make(map[string]*Counts, len(categories))
	for _, cat := range categories {
		totals[cat] = &Counts{}
	}

	report := &Report{
		IoUThreshold:        e.iou,
		ConfidenceThreshold: e.conf,
	}

	for _, docName := range sortedKeys(gt) {
		docDir := filepath.Join(imagesRoot, stem(docName))
		pages := gt[docName]

		for _, pageKey := range sortedKeys(pages) {
			pageNum, err := PageNumber(pageKey)
			if err != nil {
				logger.Warnw("skipping page with malformed key", "document", docName, "page", pageKey)
				report.PagesSkipped++
				continue
			}

			imagePath := filepath.Join(docDir, fmt.Sprintf("page_%03d.jpg", pageNum))
			width, height, err := imaging.Dimensions(imagePath)
			if err != nil {
				logger.Warnw("skipping page without readable image", "image", imagePath, "error", err)
				report.PagesSkipped++
				continue
			}

			page := pages[pageKey]
			gtBoxes := groupGroundTruth(page, width, height)

			predictions, err := e.predictions(ctx, imagePath, width, height)
			if err != nil {
				return nil, err
			}

			for _, cat := range categories {
				totals[cat].Add(MatchGreedy(gtBoxes[cat], predictions[cat], e.iou))
			}
			report.PagesEvaluated++
		}
	}

	for _, cat := range categories {
		c := totals[cat]
		report.Categories = append(report.Categories, CategoryResult{
			Category:  cat,
			TP:        c.TP,
			FP:        c.FP,
			FN:        c.FN,
			Precision: c.Precision(),
			Recall:    c.Recall(),
			F1:        c.F1(),
			Support:   c.Support(),
		})
	}
	return report, nil
}

// predictions gathers detector boxes grouped by category, with accepted QR
// hits added as full-confidence qr predictions.
func (e *Evaluator) predictions(ctx context.Context, imagePath string, width, height int) (map[string][]detection.Box, error) {
	boxes, err := e.detector.Detect(ctx, imagePath, e.conf)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]detection.Box)
	for _, b := range boxes {
		grouped[b.Label] = append(grouped[b.Label], b)
	}

	for _, hit := range e.qrChain.Read(ctx, imagePath, width, height) {
		grouped[detection.LabelQR] = append(grouped[detection.LabelQR],
			detection.NewBox(detection.LabelQR, 1.0, qr.Bounds(hit.Polygon)))
	}
	return grouped, nil
}

func groupGroundTruth(page PageAnnotations, imageWidth, imageHeight int) map[string][]geometry.Box {
	grouped := make(map[string][]geometry.Box)
	for _, entry := range page.Annotations {
		for _, region := range entry {
			grouped[region.Category] = append(grouped[region.Category],
				region.BBox.Scaled(page.PageSize, imageWidth, imageHeight))
		}
	}
	return grouped
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
