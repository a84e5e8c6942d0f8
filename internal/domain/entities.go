// Package domain holds the core entities and ports of the autofill service.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoResume        = errors.New("no resume uploaded")
	ErrNoExtraction    = errors.New("resume not extracted")
	ErrNotFound        = errors.New("not found")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrUpstreamEmpty   = errors.New("upstream empty response")
	ErrSchemaInvalid   = errors.New("schema invalid")
	ErrInternal        = errors.New("internal error")
)

// Provenance tags reported in ResolvedField.FieldMatched when the value did not
// come straight from the model. Used for observability and tests, never for
// business decisions.
const (
	SourceSimpleExtraction = "simple_extraction"
	SourceLLMError         = "llm_error"
	SourceNoData           = "no_data"
	SourceIntentGuard      = "intent_guard"
)

// FieldQuery describes one web-form field to resolve. All fields are optional;
// a query is immutable for the duration of a resolution.
type FieldQuery struct {
	Label        string `json:"field_label"`
	Name         string `json:"field_name"`
	Placeholder  string `json:"field_placeholder"`
	Type         string `json:"field_type"`
	CurrentValue string `json:"field_value_current"`
}

// IsZero reports whether the query carries no metadata at all.
func (q FieldQuery) IsZero() bool {
	return q.Label == "" && q.Name == "" && q.Placeholder == "" && q.Type == "" && q.CurrentValue == ""
}

// PersonalInfo is the contact section of a structured resume.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Education is one education entry. Entries are ordered most-recent-first by
// upstream convention; index 0 is the most recent.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Score       string `json:"score,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Experience is one work-experience entry, ordered most-recent-first.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// StructuredResume is the strict schema the extraction step binds into.
// It is read-only during resolution; unknown JSON keys are ignored on parse.
type StructuredResume struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Education    []Education  `json:"education"`
	Experience   []Experience `json:"experience"`
	Skills       []string     `json:"skills"`
}

// HasSkills reports whether the resume carries at least one skill.
func (r StructuredResume) HasSkills() bool { return len(r.Skills) > 0 }

// HasExperience reports whether the resume carries at least one experience entry.
func (r StructuredResume) HasExperience() bool { return len(r.Experience) > 0 }

// HasEducation reports whether the resume carries at least one education entry.
func (r StructuredResume) HasEducation() bool { return len(r.Education) > 0 }

// HasGitHub reports whether personal_info.github is non-blank.
func (r StructuredResume) HasGitHub() bool { return strings.TrimSpace(r.PersonalInfo.GitHub) != "" }

// HasLinkedIn reports whether personal_info.linkedin is non-blank.
func (r StructuredResume) HasLinkedIn() bool { return strings.TrimSpace(r.PersonalInfo.LinkedIn) != "" }

// ExtractedValue is the deterministic extractor's answer for a field.
// An empty Value means "no answer" regardless of the confidence.
type ExtractedValue struct {
	Value      string
	Confidence float64
	Reasoning  string
}

// ResolvedField is the autofill answer for one field. Resolution always yields
// a value-shaped result; failures degrade to an empty value with a provenance tag.
type ResolvedField struct {
	SuggestedValue string  `json:"suggested_value"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	FieldMatched   string  `json:"field_matched"`
}

// ResumeRecord is the single stored resume: raw text plus, once extraction has
// run, the sanitized structured JSON. The latest upload overwrites the previous one.
type ResumeRecord struct {
	ID            string
	FileName      string
	RawText       string
	ExtractedJSON string
	UploadedAt    time.Time
}

// ModelInfo summarizes one model known to the gateway.
type ModelInfo struct {
	Name       string `json:"name"`
	Family     string `json:"family,omitempty"`
	SizeBytes  int64  `json:"size_bytes"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// ChatMessage is one chat-completion message on the gateway wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResumeRepository stores the current resume (single slot, latest wins).
// Get returns ErrNoResume when nothing is stored.
type ResumeRepository interface {
	Save(ctx Context, rec ResumeRecord) error
	Get(ctx Context) (ResumeRecord, error)
	SetExtraction(ctx Context, extractedJSON string) error
	Clear(ctx Context) error
}

// ModelGateway is the language-model collaborator boundary. Chat sends a
// JSON-format chat completion and returns the raw message content. All calls
// must be timeout-bounded by the implementation or the caller context.
type ModelGateway interface {
	Chat(ctx Context, model string, messages []ChatMessage) (string, error)
	ListModels(ctx Context) ([]ModelInfo, error)
	HasModel(ctx Context, name string) (bool, error)
}

// TextExtractor extracts plain text from an uploaded document at path.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// Context aliases context.Context so usecases stay decoupled from adapters.
type Context = context.Context
