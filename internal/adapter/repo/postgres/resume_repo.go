package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jobautofill/backend/internal/domain"
)

// PgxPool is the minimal pool subset the repo needs, kept small for testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ResumeRepo stores the current resume in a single-row table. The slot column
// is fixed to 1, so an upload is an upsert and "latest wins" holds across
// process restarts.
type ResumeRepo struct{ Pool PgxPool }

// NewResumeRepo constructs a ResumeRepo over the given pool.
func NewResumeRepo(p PgxPool) *ResumeRepo { return &ResumeRepo{Pool: p} }

// EnsureSchema creates the resume table if it does not exist.
func EnsureSchema(ctx context.Context, p PgxPool) error {
	q := `CREATE TABLE IF NOT EXISTS current_resume (
		slot INT PRIMARY KEY DEFAULT 1 CHECK (slot = 1),
		id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		raw_text TEXT NOT NULL,
		extracted_json TEXT NOT NULL DEFAULT '',
		uploaded_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := p.Exec(ctx, q); err != nil {
		return fmt.Errorf("op=resume.schema: %w", err)
	}
	return nil
}

// Save upserts the resume into the single slot, dropping any previous
// extraction.
func (r *ResumeRepo) Save(ctx context.Context, rec domain.ResumeRecord) error {
	ctx, span := otel.Tracer("repo.resume").Start(ctx, "resume.Save")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPSERT"),
	)

	q := `INSERT INTO current_resume (slot, id, file_name, raw_text, extracted_json, uploaded_at)
		VALUES (1, $1, $2, $3, '', $4)
		ON CONFLICT (slot) DO UPDATE
		SET id = EXCLUDED.id, file_name = EXCLUDED.file_name, raw_text = EXCLUDED.raw_text,
			extracted_json = '', uploaded_at = EXCLUDED.uploaded_at`
	if _, err := r.Pool.Exec(ctx, q, rec.ID, rec.FileName, rec.RawText, rec.UploadedAt); err != nil {
		return fmt.Errorf("op=resume.save: %w", err)
	}
	return nil
}

// Get loads the stored resume, or domain.ErrNoResume when the slot is empty.
func (r *ResumeRepo) Get(ctx context.Context) (domain.ResumeRecord, error) {
	ctx, span := otel.Tracer("repo.resume").Start(ctx, "resume.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
	)

	q := `SELECT id, file_name, raw_text, extracted_json, uploaded_at FROM current_resume WHERE slot = 1`
	var rec domain.ResumeRecord
	err := r.Pool.QueryRow(ctx, q).Scan(&rec.ID, &rec.FileName, &rec.RawText, &rec.ExtractedJSON, &rec.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ResumeRecord{}, domain.ErrNoResume
	}
	if err != nil {
		return domain.ResumeRecord{}, fmt.Errorf("op=resume.get: %w", err)
	}
	return rec, nil
}

// SetExtraction attaches the sanitized structured JSON to the stored resume.
func (r *ResumeRepo) SetExtraction(ctx context.Context, extractedJSON string) error {
	ctx, span := otel.Tracer("repo.resume").Start(ctx, "resume.SetExtraction")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "UPDATE"),
	)

	tag, err := r.Pool.Exec(ctx, `UPDATE current_resume SET extracted_json = $1 WHERE slot = 1`, extractedJSON)
	if err != nil {
		return fmt.Errorf("op=resume.set_extraction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoResume
	}
	return nil
}

// Clear removes the stored resume.
func (r *ResumeRepo) Clear(ctx context.Context) error {
	ctx, span := otel.Tracer("repo.resume").Start(ctx, "resume.Clear")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "DELETE"),
	)

	if _, err := r.Pool.Exec(ctx, `DELETE FROM current_resume WHERE slot = 1`); err != nil {
		return fmt.Errorf("op=resume.clear: %w", err)
	}
	return nil
}
