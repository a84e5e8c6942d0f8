// Package usecase contains the field-resolution pipeline and the services
// that orchestrate resume extraction and autofill.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	obs "github.com/jobautofill/backend/internal/adapter/observability"
	"github.com/jobautofill/backend/internal/config"
	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/extract"
	"github.com/jobautofill/backend/internal/intent"
	"github.com/jobautofill/backend/internal/observability"
)

// AutofillService resolves form fields against the current resume. One field
// is one synchronous classify -> extract -> gate -> (optional model call) ->
// guard pass; batch resolution fans fields out over a bounded worker pool.
type AutofillService struct {
	extraction *ExtractionService
	gateway    domain.ModelGateway
	models     *ModelService
	extractor  *extract.Extractor
	prompts    config.Prompts

	chatTimeout time.Duration
	batchLimit  int
}

// NewAutofillService wires the resolution pipeline.
func NewAutofillService(
	extraction *ExtractionService,
	gateway domain.ModelGateway,
	models *ModelService,
	extractor *extract.Extractor,
	prompts config.Prompts,
	chatTimeout time.Duration,
	batchLimit int,
) *AutofillService {
	if batchLimit < 1 {
		batchLimit = 1
	}
	return &AutofillService{
		extraction:  extraction,
		gateway:     gateway,
		models:      models,
		extractor:   extractor,
		prompts:     prompts,
		chatTimeout: chatTimeout,
		batchLimit:  batchLimit,
	}
}

// Resolve answers a single field. The returned error is only ever
// domain.ErrNoResume or domain.ErrNoExtraction; once a resume is loaded,
// resolution always yields a value-shaped result.
func (s *AutofillService) Resolve(ctx context.Context, q domain.FieldQuery) (domain.ResolvedField, error) {
	resume, err := s.extraction.Current(ctx)
	if err != nil {
		return domain.ResolvedField{}, err
	}
	return s.resolveField(ctx, q, resume), nil
}

// ResolveBatch answers a map of field-id to query. Fields resolve
// independently: one failing field degrades to an llm_error entry without
// aborting its siblings.
func (s *AutofillService) ResolveBatch(ctx context.Context, queries map[string]domain.FieldQuery) (map[string]domain.ResolvedField, error) {
	resume, err := s.extraction.Current(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ResolvedField, len(queries))
	ids := make([]string, 0, len(queries))
	for id := range queries {
		ids = append(ids, id)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, id := range ids {
		i, q := i, queries[id]
		g.Go(func() error {
			results[i] = s.resolveField(gctx, q, resume)
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	out := make(map[string]domain.ResolvedField, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out, nil
}

// resolveField runs the pipeline for one field against a loaded resume.
// It never fails: model-path errors degrade to a guarded llm_error result.
func (s *AutofillService) resolveField(ctx context.Context, q domain.FieldQuery, resume domain.StructuredResume) domain.ResolvedField {
	lg := observability.LoggerFromContext(ctx)

	res := intent.Classify(q)
	extracted := s.extractor.Extract(q.Label, q.Name, resume)

	switch decide(res.Type, extracted, resume) {
	case UseDeterministic:
		obs.ResolutionsTotal.WithLabelValues(domain.SourceSimpleExtraction).Inc()
		return domain.ResolvedField{
			SuggestedValue: extracted.Value,
			Confidence:     extracted.Confidence,
			Reasoning:      extracted.Reasoning,
			FieldMatched:   domain.SourceSimpleExtraction,
		}
	case NoData:
		obs.ResolutionsTotal.WithLabelValues(domain.SourceNoData).Inc()
		return domain.ResolvedField{
			SuggestedValue: "",
			Confidence:     0.1,
			Reasoning:      fmt.Sprintf("Resume has no data relevant to %s", res.Type),
			FieldMatched:   domain.SourceNoData,
		}
	}

	obs.EscalationsTotal.WithLabelValues(string(res.Type)).Inc()
	answer := s.escalate(ctx, q, res, resume)
	guarded := guardAnswer(res.Type, answer, resume)
	obs.ResolutionsTotal.WithLabelValues(resolutionSource(guarded)).Inc()

	lg.Debug("field resolved",
		slog.String("intent", string(res.Type)),
		slog.String("source", guarded.FieldMatched),
		slog.Float64("confidence", guarded.Confidence))
	return guarded
}

// escalate sends one timeout-bounded chat completion and parses the answer.
// Any failure returns nil, which the guard converts to an llm_error result.
func (s *AutofillService) escalate(ctx context.Context, q domain.FieldQuery, res intent.Result, resume domain.StructuredResume) *modelAnswer {
	lg := observability.LoggerFromContext(ctx)

	prompt := buildAutofillPrompt(s.prompts, q, res, buildFocusedContext(res.Type, resume), resumeSnapshot(resume))
	messages := []domain.ChatMessage{{Role: "user", Content: prompt}}

	chatCtx, cancel := context.WithTimeout(ctx, s.chatTimeout)
	defer cancel()
	content, err := s.gateway.Chat(chatCtx, s.models.Active(), messages)
	if err != nil {
		lg.Warn("model call failed", slog.String("intent", string(res.Type)), slog.Any("error", err))
		return nil
	}

	var ans modelAnswer
	if err := json.Unmarshal([]byte(content), &ans); err != nil {
		lg.Warn("model answer is not valid JSON", slog.String("intent", string(res.Type)), slog.Any("error", err))
		return nil
	}
	return &ans
}

// resolutionSource maps a guarded result to the metric label. Answers the
// model produced itself count as "llm".
func resolutionSource(f domain.ResolvedField) string {
	switch f.FieldMatched {
	case domain.SourceLLMError, domain.SourceNoData, domain.SourceIntentGuard:
		return f.FieldMatched
	default:
		return "llm"
	}
}
