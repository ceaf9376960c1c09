package mappers

import (
	"math"

	api "github.com/docscanhq/docscan/api/v1alpha1"
	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/qr"
	"github.com/docscanhq/docscan/internal/store/model"
)

func JobToApi(j *model.JobRecord) api.Job {
	job := api.Job{
		JobID:       j.ID,
		Status:      api.StringToJobStatus(string(j.Status)),
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
		Summary: api.JobSummary{
			Signature: j.Summary.Signature > 0,
			Stamp:     j.Summary.Stamp > 0,
			QR:        j.Summary.QR > 0,
		},
		Pages: []api.Page{},
		Error: j.Error,
	}
	for _, p := range j.Pages {
		job.Pages = append(job.Pages, PageToApi(p))
	}
	return job
}

func JobListToApi(jobs ...*model.JobRecord) api.JobList {
	jobList := []api.Job{}
	for _, j := range jobs {
		jobList = append(jobList, JobToApi(j))
	}
	return jobList
}

func PageToApi(p model.PageResult) api.Page {
	page := api.Page{
		PageName:       p.Name,
		SourceURL:      MediaURL(p.SourcePath),
		AnnotatedURL:   MediaURL(p.AnnotatedPath),
		HeatmapURL:     MediaURL(p.HeatmapPath),
		Detections:     []api.Detection{},
		QRCodes:        []api.QRCode{},
		RequiresReview: p.RequiresReview,
	}
	for _, d := range p.Detections {
		page.Detections = append(page.Detections, DetectionToApi(d))
	}
	for _, q := range p.QRCodes {
		page.QRCodes = append(page.QRCodes, QRCodeToApi(q))
	}
	return page
}

func DetectionToApi(d detection.Box) api.Detection {
	return api.Detection{
		Label:      d.Label,
		Confidence: d.Confidence,
		BBox: [4]int{
			int(math.Round(d.Bounds.X1)),
			int(math.Round(d.Bounds.Y1)),
			int(math.Round(d.Bounds.X2)),
			int(math.Round(d.Bounds.Y2)),
		},
	}
}

func QRCodeToApi(q qr.Detection) api.QRCode {
	code := api.QRCode{
		Text:    q.Text,
		Polygon: [][2]int{},
	}
	for _, pt := range q.Polygon {
		code.Polygon = append(code.Polygon, [2]int{pt.X, pt.Y})
	}
	return code
}

// MediaURL exposes a media-root-relative artifact path under the static
// /media/ mount. Empty paths stay empty, the artifact was never produced.
func MediaURL(rel string) string {
	if rel == "" {
		return ""
	}
	return "/media/" + rel
}
