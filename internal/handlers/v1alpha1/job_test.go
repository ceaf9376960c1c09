package v1alpha1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/docscanhq/docscan/api/v1alpha1"
	"github.com/docscanhq/docscan/internal/detection"
	handlers "github.com/docscanhq/docscan/internal/handlers/v1alpha1"
	"github.com/docscanhq/docscan/internal/pipeline"
	"github.com/docscanhq/docscan/internal/qr"
	"github.com/docscanhq/docscan/internal/service"
	"github.com/docscanhq/docscan/internal/store"
	"github.com/docscanhq/docscan/internal/store/model"
)

func TestHandlers(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Handlers Suite")
}

type noopDetector struct{}

func (noopDetector) Detect(context.Context, string, float64) ([]detection.Box, error) {
	return nil, nil
}

type noopRasterizer struct{}

func (noopRasterizer) Rasterize(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func multipartUpload(filename string) (*bytes.Buffer, string) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	var payload bytes.Buffer
	if err := jpeg.Encode(&payload, img, nil); err != nil {
		panic(err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		panic(err)
	}
	if _, err := io.Copy(part, &payload); err != nil {
		panic(err)
	}
	if err := form.Close(); err != nil {
		panic(err)
	}
	return &body, form.FormDataContentType()
}

var _ = Describe("job handler", func() {
	var (
		s          store.Store
		testServer *httptest.Server
	)

	BeforeEach(func() {
		s = store.NewStore()
		mediaRoot := GinkgoT().TempDir()
		orchestrator := pipeline.NewOrchestrator(s, noopDetector{}, qr.NewChain(), noopRasterizer{}, pipeline.Options{
			MediaRoot:           mediaRoot,
			ConfidenceThreshold: 0.25,
			Review:              detection.ReviewThresholds{Low: 0.5, High: 0.8},
		})

		router := chi.NewRouter()
		handlers.NewServiceHandler(service.NewJobService(s, orchestrator, mediaRoot)).Routes(router)
		testServer = httptest.NewServer(router)
		DeferCleanup(testServer.Close)
	})

	Context("create", func() {
		It("accepts a multipart upload and returns the pending job", func() {
			body, contentType := multipartUpload("scan.jpg")
			resp, err := http.Post(testServer.URL+"/api/jobs", contentType, body)
			Expect(err).To(BeNil())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			var job api.Job
			Expect(json.NewDecoder(resp.Body).Decode(&job)).To(Succeed())
			Expect(job.JobID).ToNot(BeEmpty())
			Expect(job.Status).To(Equal(api.JobStatusPending))
			Expect(job.Pages).To(BeEmpty())
			Expect(job.Summary.Signature).To(BeFalse())

			// Wait out the background run so the media root is quiet
			// before cleanup.
			Eventually(func() model.JobStatus {
				record, err := s.Job().Get(context.TODO(), job.JobID)
				Expect(err).To(BeNil())
				return record.Status
			}).Should(Equal(model.JobStatusCompleted))
		})

		It("rejects a form without a file part", func() {
			var body bytes.Buffer
			form := multipart.NewWriter(&body)
			Expect(form.WriteField("note", "no file here")).To(Succeed())
			Expect(form.Close()).To(Succeed())

			resp, err := http.Post(testServer.URL+"/api/jobs", form.FormDataContentType(), &body)
			Expect(err).To(BeNil())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

			var apiErr api.Error
			Expect(json.NewDecoder(resp.Body).Decode(&apiErr)).To(Succeed())
			Expect(apiErr.Message).To(ContainSubstring("multipart field"))
		})

		It("rejects a non-multipart body", func() {
			resp, err := http.Post(testServer.URL+"/api/jobs", "application/json", bytes.NewBufferString("{}"))
			Expect(err).To(BeNil())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Context("get", func() {
		It("returns the job", func() {
			created, err := s.Job().Create(context.TODO())
			Expect(err).To(BeNil())

			resp, err := http.Get(testServer.URL + "/api/jobs/" + created.ID)
			Expect(err).To(BeNil())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var job api.Job
			Expect(json.NewDecoder(resp.Body).Decode(&job)).To(Succeed())
			Expect(job.JobID).To(Equal(created.ID))
			Expect(job.CompletedAt).To(BeNil())
		})

		It("returns 404 for an unknown id", func() {
			resp, err := http.Get(testServer.URL + "/api/jobs/ghost")
			Expect(err).To(BeNil())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))

			var apiErr api.Error
			Expect(json.NewDecoder(resp.Body).Decode(&apiErr)).To(Succeed())
			Expect(apiErr.Message).To(Equal("job ghost not found"))
		})
	})

	Context("list", func() {
		It("returns jobs newest first", func() {
			first, err := s.Job().Create(context.TODO())
			Expect(err).To(BeNil())
			second, err := s.Job().Create(context.TODO())
			Expect(err).To(BeNil())

			resp, err := http.Get(testServer.URL + "/api/jobs")
			Expect(err).To(BeNil())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var jobs []api.Job
			Expect(json.NewDecoder(resp.Body).Decode(&jobs)).To(Succeed())
			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].JobID).To(Equal(second.ID))
			Expect(jobs[1].JobID).To(Equal(first.ID))
		})
	})

	It("serves the health endpoint", func() {
		resp, err := http.Get(testServer.URL + "/health")
		Expect(err).To(BeNil())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var health map[string]string
		Expect(json.NewDecoder(resp.Body).Decode(&health)).To(Succeed())
		Expect(health["status"]).To(Equal("ok"))
	})
})
