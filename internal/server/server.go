package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/Crucible_Go/internal/handler"
	"github.com/osse101/Crucible_Go/internal/logger"
	"github.com/osse101/Crucible_Go/internal/manufacturing"
	"github.com/osse101/Crucible_Go/internal/material"
	"github.com/osse101/Crucible_Go/internal/metrics"
	"github.com/osse101/Crucible_Go/internal/purification"
	"github.com/osse101/Crucible_Go/internal/refining"
)

// Options configures the HTTP listener and its middleware
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	ServiceName    string
	Detector       DetectorConfig
}

// Services are the application services exposed over HTTP
type Services struct {
	Store         handler.Pinger
	Materials     material.Service
	Refining      refining.Service
	Purification  purification.Service
	Manufacturing manufacturing.Service
	Catalog       handler.CatalogReader
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector(opts.Detector)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.Store))

	r.Get("/version", handler.HandleVersion(opts.ServiceName))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		materialHandler := handler.NewMaterialHandler(svc.Materials, svc.Refining)
		r.Route("/materials", func(r chi.Router) {
			r.Get("/", materialHandler.HandleListStacks)
			r.Post("/extract", materialHandler.HandleExtract)
			r.Post("/consolidate", materialHandler.HandleConsolidate)
			r.Get("/{stackID}", materialHandler.HandleGetStack)
		})

		refiningHandler := handler.NewRefiningHandler(svc.Refining)
		r.Route("/refining", func(r chi.Router) {
			r.Post("/preview", refiningHandler.HandlePreview)
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", refiningHandler.HandleListJobs)
				r.Post("/", refiningHandler.HandleRefine)
				r.Get("/{jobID}", refiningHandler.HandleGetJob)
				r.Post("/{jobID}/collect", refiningHandler.HandleCollect)
				r.Post("/{jobID}/cancel", refiningHandler.HandleCancel)
			})
		})

		purificationHandler := handler.NewPurificationHandler(svc.Purification)
		r.Route("/purification", func(r chi.Router) {
			r.Post("/purify", purificationHandler.HandlePurify)
			r.Get("/odds", purificationHandler.HandleOdds)
		})

		manufacturingHandler := handler.NewManufacturingHandler(svc.Manufacturing)
		r.Route("/manufacturing", func(r chi.Router) {
			r.Post("/plan", manufacturingHandler.HandlePlan)
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", manufacturingHandler.HandleListJobs)
				r.Post("/", manufacturingHandler.HandleQueue)
				r.Get("/{jobID}", manufacturingHandler.HandleGetJob)
				r.Post("/{jobID}/collect", manufacturingHandler.HandleCollect)
				r.Post("/{jobID}/cancel", manufacturingHandler.HandleCancel)
			})
		})

		catalogHandler := handler.NewCatalogHandler(svc.Catalog)
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/materials", catalogHandler.HandleMaterials)
			r.Get("/blueprints", catalogHandler.HandleBlueprints)
			r.Get("/blueprints/{blueprintID}", catalogHandler.HandleBlueprint)
			r.Get("/grades", catalogHandler.HandleGrades)
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		router: r,
	}
}

// Handler returns the fully wired router
func (s *Server) Handler() http.Handler {
	return s.router
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health checks and scrapes are not logged
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
