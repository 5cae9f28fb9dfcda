package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/joescharf/prr/internal/generate"
	"github.com/joescharf/prr/internal/logger"
	"github.com/joescharf/prr/internal/models"
	"github.com/joescharf/prr/internal/pdf"
	"github.com/joescharf/prr/internal/review"
	"github.com/joescharf/prr/internal/store"
)

// GenerationFailedMessage is the single user-facing message for renderer failures.
const GenerationFailedMessage = "Failed to generate PDF. Please try again."

// Server provides the HTTP handlers.
type Server struct {
	svc   *generate.Service
	store store.Store
	ui    http.Handler
	log   *zap.Logger
}

// NewServer creates a new API server. The ui handler serves the review form
// at "/" and may be nil.
func NewServer(svc *generate.Service, s store.Store, ui http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		svc:   svc,
		store: s,
		ui:    ui,
		log:   log,
	}
}

// Router returns an http.Handler for all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(s.log))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/healthz", s.healthz)
	r.Post("/generate-pdf", s.generatePDF)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reviews/validate", s.validateReview)
		r.Post("/reviews/preview", s.previewReview)

		r.Route("/reports", func(r chi.Router) {
			r.Use(s.requireHistory)
			r.Get("/", s.listReports)
			r.Get("/{id}", s.getReport)
			r.Get("/{id}/html", s.getReportHTML)
			r.Delete("/{id}", s.deleteReport)
		})
	})

	if s.ui != nil {
		r.Handle("/", s.ui)
		r.Handle("/static/*", s.ui)
	}

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// validationResponse is the 422 body for a rejected submission.
type validationResponse struct {
	Error       string              `json:"error"`
	Fields      []review.FieldID    `json:"fields"`
	FieldErrors []review.FieldError `json:"fieldErrors"`
}

func writeInvalid(w http.ResponseWriter, res review.Result) {
	writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
		Error:       "validation failed",
		Fields:      res.Fields(),
		FieldErrors: res.Errors,
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Reviews ---

func (s *Server) generatePDF(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.svc.Generate(r.Context(), sub)
	var invalid *generate.InvalidError
	switch {
	case errors.As(err, &invalid):
		writeInvalid(w, invalid.Result)
		return
	case errors.Is(err, pdf.ErrGenerationFailed):
		s.log.Error("pdf generation failed", zap.Error(err), zap.String("project", sub.Project))
		writeError(w, http.StatusBadGateway, GenerationFailedMessage)
		return
	case err != nil && out == nil:
		s.log.Error("generate report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, GenerationFailedMessage)
		return
	case err != nil:
		s.log.Warn("report generated but not recorded", zap.Error(err))
	}

	s.log.Info("report generated",
		zap.String("project", sub.Project),
		zap.String("file_name", out.FileName),
		zap.Int("bytes", len(out.PDF)),
		zap.String("report_id", out.RecordID),
	)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.PDF)))
	if out.RecordID != "" {
		w.Header().Set("X-Report-ID", out.RecordID)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.PDF)
}

func (s *Server) validateReview(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Validate(sub))
}

func (s *Server) previewReview(w http.ResponseWriter, r *http.Request) {
	sub, err := decodeSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.svc.Preview(sub)
	if err != nil {
		var invalid *generate.InvalidError
		if errors.As(err, &invalid) {
			writeInvalid(w, invalid.Result)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.HTML))
}

// --- Reports ---

// requireHistory answers 404 on the report routes when no store is configured.
func (s *Server) requireHistory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, http.StatusNotFound, "report history is disabled")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	filter := store.ReportListFilter{Project: r.URL.Query().Get("project")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	reports, err := s.store.ListReports(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []*models.ReportRecord{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) getReportHTML(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rec.HTML))
}

func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteReport(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookupReport(w http.ResponseWriter, r *http.Request) (*models.ReportRecord, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return rec, true
}
