package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vypiska/internal/amqp"
	"vypiska/internal/core"
	"vypiska/internal/log"
	"vypiska/internal/report"
	"vypiska/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	doc, err := s.reports.BuildHome(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeReport(w, r, doc)
}

func (s *Server) handleWeekday(w http.ResponseWriter, r *http.Request) {
	doc, err := s.reports.BuildWeekday(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeReport(w, r, doc)
}

func (s *Server) handleTransfers(w http.ResponseWriter, r *http.Request) {
	doc, err := s.reports.BuildTransfers(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeReport(w, r, doc)
}

// handleSavedReports lists persisted reports of one kind, newest first.
func (s *Server) handleSavedReports(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "report archive is not configured"})
		return
	}
	kind := r.URL.Query().Get("kind")
	if !validKind(kind) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown report kind: " + kind})
		return
	}

	if r.URL.Query().Get("latest") == "true" {
		record, err := s.archive.LatestReport(r.Context(), kind)
		if errors.Is(err, storage.ErrNoReport) {
			s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no report of kind " + kind})
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, record)
		return
	}

	limit := 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	records, err := s.archive.ListReports(r.Context(), kind, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []storage.ReportRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

// handleCreateRequest queues an asynchronous report build and answers 202
// with the queued request.
func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "async report builds are not configured"})
		return
	}

	var body struct {
		Kind string `json:"kind"`
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if !validKind(body.Kind) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown report kind: " + body.Kind})
		return
	}
	if body.Date != "" {
		if _, err := core.ParseReferenceDate(body.Date); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	msg := amqp.NewReportRequest(body.Kind, body.Date)
	if err := s.publisher.PublishReportRequest(r.Context(), msg); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to queue report request", log.FieldError, err)
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to queue report request"})
		return
	}
	s.writeJSON(w, http.StatusAccepted, msg)
}

func validKind(kind string) bool {
	switch kind {
	case report.KindHome, report.KindWeekday, report.KindTransfers:
		return true
	}
	return false
}

// writeReport sends a built document using the report encoder so the JSON on
// the wire matches what the CLI prints and the archive stores.
func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, doc any) {
	payload, err := report.EncodeJSON(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to statuses: bad input is the caller's
// fault, upstream quote failures surface as 502, anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		parseErr   *core.ParseError
		serviceErr *core.ExternalServiceError
	)
	switch {
	case errors.As(err, &parseErr):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: parseErr.Error()})
	case errors.As(err, &serviceErr):
		s.logger.ErrorContext(r.Context(), "upstream service failed", log.FieldError, err)
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: serviceErr.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "report build failed", log.FieldError, err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
