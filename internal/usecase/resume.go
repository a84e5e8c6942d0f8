package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/observability"
	"github.com/jobautofill/backend/pkg/textx"
)

// ResumeService owns the single-slot resume lifecycle: ingest a new upload
// (latest wins), read the current one, and clear it.
type ResumeService struct {
	repo      domain.ResumeRepository
	extractor domain.TextExtractor
}

// NewResumeService wires the resume lifecycle.
func NewResumeService(repo domain.ResumeRepository, extractor domain.TextExtractor) *ResumeService {
	return &ResumeService{repo: repo, extractor: extractor}
}

// Ingest extracts text from the uploaded document at path and stores it as
// the current resume, replacing any previous upload.
func (s *ResumeService) Ingest(ctx context.Context, fileName, path string) (domain.ResumeRecord, error) {
	text, err := s.extractor.ExtractPath(ctx, fileName, path)
	if err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("op=resume.Ingest: extract text: %w", err)
	}
	text = textx.SanitizeText(text)
	if strings.TrimSpace(text) == "" {
		return domain.ResumeRecord{}, fmt.Errorf("op=resume.Ingest: document has no extractable text: %w", domain.ErrInvalidArgument)
	}

	rec := domain.ResumeRecord{
		ID:         uuid.NewString(),
		FileName:   fileName,
		RawText:    text,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("op=resume.Ingest: save: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("resume ingested",
		slog.String("resume_id", rec.ID),
		slog.String("file", fileName),
		slog.Int("chars", len(text)))
	return rec, nil
}

// Current returns the stored resume record.
func (s *ResumeService) Current(ctx context.Context) (domain.ResumeRecord, error) {
	rec, err := s.repo.Get(ctx)
	if err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("op=resume.Current: %w", err)
	}
	return rec, nil
}

// Clear removes the stored resume.
func (s *ResumeService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("op=resume.Clear: %w", err)
	}
	return nil
}
