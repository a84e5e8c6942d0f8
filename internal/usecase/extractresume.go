package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobautofill/backend/internal/config"
	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/observability"
	"github.com/jobautofill/backend/internal/sanitize"
)

// ExtractionService turns the stored raw resume text into a StructuredResume
// via one model call, sanitizes the model's JSON, and persists the result.
type ExtractionService struct {
	repo        domain.ResumeRepository
	gateway     domain.ModelGateway
	models      *ModelService
	prompts     config.Prompts
	chatTimeout time.Duration
}

// NewExtractionService wires the extraction flow.
func NewExtractionService(
	repo domain.ResumeRepository,
	gateway domain.ModelGateway,
	models *ModelService,
	prompts config.Prompts,
	chatTimeout time.Duration,
) *ExtractionService {
	return &ExtractionService{
		repo:        repo,
		gateway:     gateway,
		models:      models,
		prompts:     prompts,
		chatTimeout: chatTimeout,
	}
}

// Extract runs the model over the stored raw text, sanitizes and binds the
// output, and stores the sanitized JSON on success.
func (s *ExtractionService) Extract(ctx context.Context) (domain.StructuredResume, error) {
	rec, err := s.repo.Get(ctx)
	if err != nil {
		return domain.StructuredResume{}, fmt.Errorf("op=extraction.Extract: %w", err)
	}

	prompt := buildExtractionPrompt(s.prompts, rec.RawText)
	messages := []domain.ChatMessage{{Role: "user", Content: prompt}}

	chatCtx, cancel := context.WithTimeout(ctx, s.chatTimeout)
	defer cancel()
	content, err := s.gateway.Chat(chatCtx, s.models.Active(), messages)
	if err != nil {
		return domain.StructuredResume{}, fmt.Errorf("op=extraction.Extract: chat: %w", err)
	}

	clean := sanitize.ResumeJSON(content)
	var resume domain.StructuredResume
	if err := json.Unmarshal([]byte(clean), &resume); err != nil {
		return domain.StructuredResume{}, fmt.Errorf("op=extraction.Extract: bind: %v: %w", err, domain.ErrSchemaInvalid)
	}

	if err := s.repo.SetExtraction(ctx, clean); err != nil {
		return domain.StructuredResume{}, fmt.Errorf("op=extraction.Extract: store: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("resume extracted",
		slog.String("resume_id", rec.ID),
		slog.Int("skills", len(resume.Skills)),
		slog.Int("experience", len(resume.Experience)),
		slog.Int("education", len(resume.Education)))
	return resume, nil
}

// Current returns the stored structured resume, or domain.ErrNoExtraction
// when the resume has not been extracted yet.
func (s *ExtractionService) Current(ctx context.Context) (domain.StructuredResume, error) {
	rec, err := s.repo.Get(ctx)
	if err != nil {
		return domain.StructuredResume{}, fmt.Errorf("op=extraction.Current: %w", err)
	}
	if rec.ExtractedJSON == "" {
		return domain.StructuredResume{}, fmt.Errorf("op=extraction.Current: %w", domain.ErrNoExtraction)
	}
	var resume domain.StructuredResume
	if err := json.Unmarshal([]byte(rec.ExtractedJSON), &resume); err != nil {
		return domain.StructuredResume{}, fmt.Errorf("op=extraction.Current: bind: %v: %w", err, domain.ErrSchemaInvalid)
	}
	return resume, nil
}
