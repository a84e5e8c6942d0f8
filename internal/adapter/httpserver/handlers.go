package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jobautofill/backend/internal/config"
	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/usecase"
	"github.com/jobautofill/backend/pkg/textx"
)

// Server bundles the handlers' dependencies.
type Server struct {
	Cfg        config.Config
	Resumes    *usecase.ResumeService
	Extraction *usecase.ExtractionService
	Autofill   *usecase.AutofillService
	Models     *usecase.ModelService

	DBCheck     func(context.Context) error
	RedisCheck  func(context.Context) error
	OllamaCheck func(context.Context) error
	TikaCheck   func(context.Context) error
}

// NewServer constructs a Server.
func NewServer(cfg config.Config, resumes *usecase.ResumeService, extraction *usecase.ExtractionService, autofill *usecase.AutofillService, models *usecase.ModelService) *Server {
	return &Server{Cfg: cfg, Resumes: resumes, Extraction: extraction, Autofill: autofill, Models: models}
}

func allowedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx", ".txt":
		return true
	default:
		return false
	}
}

func allowedMIME(m, filename string) bool {
	switch {
	case strings.HasPrefix(m, "application/pdf"):
		return true
	case strings.HasPrefix(m, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return true
	case strings.HasPrefix(m, "text/plain"), strings.HasPrefix(m, "text/"):
		// Plain-text resumes sniff as text/*; trust the extension allowlist.
		return strings.EqualFold(filepath.Ext(filename), ".txt")
	case strings.HasPrefix(m, "application/zip"):
		// docx is a zip container; some generators sniff as plain zip.
		return strings.EqualFold(filepath.Ext(filename), ".docx")
	default:
		return false
	}
}

// UploadResumeHandler accepts one multipart "resume" file, validates it by
// extension and sniffed content type, and stores its extracted text as the
// current resume.
func (s *Server) UploadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}

		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
					Code: "INVALID_ARGUMENT", Message: "payload too large",
					Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB},
				}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume file required", domain.ErrInvalidArgument), map[string]string{"field": "resume"})
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read resume: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		if !allowedExt(header.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "unsupported media type (extension)",
				Details: map[string]any{"filename": header.Filename},
			}})
			return
		}
		sniffed := mimetype.Detect(data)
		if !allowedMIME(sniffed.String(), header.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "unsupported media type (content)",
				Details: map[string]any{"mime": sniffed.String(), "filename": header.Filename},
			}})
			return
		}

		tmp, err := os.CreateTemp("", "resume-*"+strings.ToLower(filepath.Ext(header.Filename)))
		if err != nil {
			writeError(w, r, fmt.Errorf("spool upload: %w", err), nil)
			return
		}
		tmpPath := tmp.Name()
		defer func() { _ = os.Remove(tmpPath) }()
		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			writeError(w, r, fmt.Errorf("spool upload: %w", err), nil)
			return
		}
		_ = tmp.Close()

		rec, err := s.Resumes.Ingest(r.Context(), header.Filename, tmpPath)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":          rec.ID,
			"file_name":   rec.FileName,
			"uploaded_at": rec.UploadedAt,
			"chars":       len(rec.RawText),
		})
	}
}

// CurrentResumeHandler returns a summary of the stored resume.
func (s *Server) CurrentResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.Resumes.Current(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":             rec.ID,
			"file_name":      rec.FileName,
			"uploaded_at":    rec.UploadedAt,
			"has_extraction": rec.ExtractedJSON != "",
			"text_preview":   textx.Preview(rec.RawText, 200),
		})
	}
}

// DeleteResumeHandler clears the stored resume.
func (s *Server) DeleteResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Resumes.Clear(r.Context()); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// ExtractHandler runs resume extraction over the stored raw text.
func (s *Server) ExtractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resume, err := s.Extraction.Extract(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"resume": resume})
	}
}

// CurrentExtractionHandler returns the stored structured resume.
func (s *Server) CurrentExtractionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resume, err := s.Extraction.Current(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"resume": resume})
	}
}

// AutofillHandler resolves a single form field.
func (s *Server) AutofillHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q domain.FieldQuery
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if q.IsZero() {
			writeError(w, r, fmt.Errorf("%w: field metadata required", domain.ErrInvalidArgument), nil)
			return
		}

		resolved, err := s.Autofill.Resolve(r.Context(), q)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, resolved)
	}
}

type batchRequest struct {
	Fields map[string]domain.FieldQuery `json:"fields" validate:"required,min=1"`
}

// AutofillBatchHandler resolves a map of field-id to query. When no resume or
// extraction exists, the response is a client error carrying an empty mapping
// so batch callers can still iterate the result.
func (s *Server) AutofillBatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: fields map required", domain.ErrInvalidArgument), nil)
			return
		}

		resolved, err := s.Autofill.ResolveBatch(r.Context(), req.Fields)
		if err != nil {
			status, code := statusFor(err)
			writeJSON(w, status, map[string]any{
				"fields": map[string]domain.ResolvedField{},
				"error":  apiError{Code: code, Message: err.Error()},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"fields": resolved})
	}
}

// ListModelsHandler lists gateway models plus the active one.
func (s *Server) ListModelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		models, err := s.Models.List(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"models": models, "active": s.Models.Active()})
	}
}

// ActiveModelHandler returns the active model name.
func (s *Server) ActiveModelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"active": s.Models.Active()})
	}
}

type setModelRequest struct {
	Name string `json:"name" validate:"required"`
}

// SetModelHandler swaps the active model after probing its availability.
func (s *Server) SetModelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setModelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: name required", domain.ErrInvalidArgument), nil)
			return
		}

		if err := s.Models.Swap(r.Context(), req.Name); err != nil {
			writeError(w, r, err, map[string]string{"name": req.Name})
			return
		}
		LoggerFrom(r).Info("active model swapped", slog.String("model", req.Name))
		writeJSON(w, http.StatusOK, map[string]string{"active": s.Models.Active()})
	}
}

// ReadyzHandler reports readiness of the configured collaborators.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		name string
		fn   func(context.Context) error
	}
	return func(w http.ResponseWriter, r *http.Request) {
		checks := []check{
			{"db", s.DBCheck},
			{"redis", s.RedisCheck},
			{"ollama", s.OllamaCheck},
			{"tika", s.TikaCheck},
		}
		failing := map[string]string{}
		for _, c := range checks {
			if c.fn == nil {
				continue
			}
			if err := c.fn(r.Context()); err != nil {
				failing[c.name] = err.Error()
			}
		}
		if len(failing) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "failing": failing})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// OpenAPIServe serves the API contract when present on disk.
func (s *Server) OpenAPIServe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile("api/openapi.yaml")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(b)
	}
}
