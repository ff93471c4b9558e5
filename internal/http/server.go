// Package http exposes the reports over a small JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"vypiska/internal/amqp"
	"vypiska/internal/log"
	"vypiska/internal/report"
	"vypiska/internal/storage"
)

// RequestPublisher queues an asynchronous report build.
type RequestPublisher interface {
	PublishReportRequest(ctx context.Context, msg *amqp.ReportRequest) error
}

// ReportArchive reads persisted report documents.
type ReportArchive interface {
	LatestReport(ctx context.Context, kind string) (storage.ReportRecord, error)
	ListReports(ctx context.Context, kind string, limit int) ([]storage.ReportRecord, error)
}

// Server serves report documents, persisted report history and the async
// build endpoint. Publisher and archive are optional; their endpoints answer
// 503 when the dependency is not configured.
type Server struct {
	http.Server
	reports   *report.Service
	archive   ReportArchive
	publisher RequestPublisher
	logger    *log.Logger
}

// Options configures a Server.
type Options struct {
	Addr      string
	Reports   *report.Service
	Archive   ReportArchive
	Publisher RequestPublisher
	Logger    *log.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:         opts.Addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		reports:   opts.Reports,
		archive:   opts.Archive,
		publisher: opts.Publisher,
		logger:    logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("GET /api/reports/home", s.withRequestLog(s.handleHome))
	mux.HandleFunc("GET /api/reports/weekday", s.withRequestLog(s.handleWeekday))
	mux.HandleFunc("GET /api/reports/transfers", s.withRequestLog(s.handleTransfers))
	mux.HandleFunc("GET /api/reports/saved", s.withRequestLog(s.handleSavedReports))
	mux.HandleFunc("POST /api/reports/requests", s.withRequestLog(s.handleCreateRequest))

	return s
}

// withRequestLog attaches a request ID and logs the request on both sides.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := newRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func newRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
