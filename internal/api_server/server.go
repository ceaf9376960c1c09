package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/docscanhq/docscan/internal/config"
	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/internal/detector"
	handlers "github.com/docscanhq/docscan/internal/handlers/v1alpha1"
	"github.com/docscanhq/docscan/internal/pipeline"
	"github.com/docscanhq/docscan/internal/qr"
	"github.com/docscanhq/docscan/internal/rasterize"
	"github.com/docscanhq/docscan/internal/service"
	"github.com/docscanhq/docscan/internal/store"
	"github.com/docscanhq/docscan/pkg/metrics"
	"github.com/docscanhq/docscan/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the docscan API server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	if err := os.MkdirAll(s.cfg.Service.MediaRoot, 0755); err != nil {
		return err
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	engines := []qr.Engine{qr.NewHTTPEngine("primary", s.cfg.Pipeline.QRPrimaryURL)}
	if s.cfg.Pipeline.QRFallbackURL != "" {
		engines = append(engines, qr.NewHTTPEngine("fallback", s.cfg.Pipeline.QRFallbackURL))
	}

	orchestrator := pipeline.NewOrchestrator(
		s.store,
		detector.NewHTTPDetector(s.cfg.Pipeline.DetectorURL),
		qr.NewChain(engines...),
		rasterize.NewPoppler(s.cfg.Pipeline.RasterDPI, s.cfg.Pipeline.PopplerPath),
		pipeline.Options{
			MediaRoot:           s.cfg.Service.MediaRoot,
			ConfidenceThreshold: s.cfg.Pipeline.ConfidenceThreshold,
			EnableHeatmap:       s.cfg.Pipeline.EnableHeatmap,
			HeatmapSigmaScale:   s.cfg.Pipeline.HeatmapSigmaScale,
			Review: detection.ReviewThresholds{
				Low:  s.cfg.Pipeline.LowConfThreshold,
				High: s.cfg.Pipeline.HighConfThreshold,
			},
		},
	)

	h := handlers.NewServiceHandler(
		service.NewJobService(s.store, orchestrator, s.cfg.Service.MediaRoot),
	)
	h.Routes(router)

	mediaServer := http.FileServer(http.Dir(s.cfg.Service.MediaRoot))
	router.Handle("/media/*", http.StripPrefix("/media/", mediaServer))

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
