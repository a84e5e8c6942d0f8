package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/intent"
)

func TestGuardAnswer_NilIsLLMError(t *testing.T) {
	t.Parallel()

	got := guardAnswer(intent.Motivation, nil, testResume())
	assert.Empty(t, got.SuggestedValue)
	assert.Zero(t, got.Confidence)
	assert.Equal(t, "Model returned null response", got.Reasoning)
	assert.Equal(t, domain.SourceLLMError, got.FieldMatched)
}

func TestGuardAnswer_EmptyMarker(t *testing.T) {
	t.Parallel()

	for _, marker := range []string{"EMPTY", "empty", " Empty "} {
		got := guardAnswer(intent.Motivation, &modelAnswer{
			SuggestedValue: marker,
			Confidence:     0.7,
			Reasoning:      "Nothing relevant in the resume",
			FieldMatched:   "experience",
		}, testResume())
		assert.Empty(t, got.SuggestedValue, "marker %q", marker)
		assert.InDelta(t, 0.1, got.Confidence, 1e-9)
		assert.Equal(t, "Nothing relevant in the resume", got.Reasoning)
		assert.Equal(t, "experience", got.FieldMatched)
	}

	// Defaults are supplied when the model gives no reasoning/source.
	got := guardAnswer(intent.Motivation, &modelAnswer{SuggestedValue: "EMPTY"}, testResume())
	assert.Equal(t, "Model found no relevant data", got.Reasoning)
	assert.Equal(t, domain.SourceNoData, got.FieldMatched)
}

func TestGuardAnswer_SkillDumpDiscarded(t *testing.T) {
	t.Parallel()

	// Six skills in the resume, threshold max(3, 6/2) = 3; an answer carrying
	// four of them under a non-skill intent is a dump.
	resume := testResume()
	dump := "I am excited because I know Go, Python, Kubernetes and Terraform."

	got := guardAnswer(intent.Motivation, &modelAnswer{
		SuggestedValue: dump,
		Confidence:     0.9,
		Reasoning:      "model reasoning",
		FieldMatched:   "skills",
	}, resume)
	assert.Empty(t, got.SuggestedValue)
	assert.Zero(t, got.Confidence)
	assert.Equal(t, "Discarded AI output that did not match intent", got.Reasoning)
	assert.Equal(t, domain.SourceIntentGuard, got.FieldMatched)
}

func TestGuardAnswer_SkillDumpAllowedForSkillList(t *testing.T) {
	t.Parallel()

	got := guardAnswer(intent.SkillList, &modelAnswer{
		SuggestedValue: "Go, Python, Kubernetes, PostgreSQL, Redis, Terraform",
		Confidence:     0.95,
	}, testResume())
	assert.Equal(t, "Go, Python, Kubernetes, PostgreSQL, Redis, Terraform", got.SuggestedValue)
}

func TestGuardAnswer_BelowThresholdPasses(t *testing.T) {
	t.Parallel()

	// Two skill mentions is under the threshold of three.
	got := guardAnswer(intent.Motivation, &modelAnswer{
		SuggestedValue: "I enjoy building Go services backed by PostgreSQL.",
		Confidence:     0.8,
		Reasoning:      "drawn from experience",
		FieldMatched:   "experience",
	}, testResume())
	assert.Equal(t, "I enjoy building Go services backed by PostgreSQL.", got.SuggestedValue)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
}

func TestGuardAnswer_URLNormalization(t *testing.T) {
	t.Parallel()

	got := guardAnswer(intent.LinkedInURL, &modelAnswer{
		SuggestedValue: "linkedin.com/in/ada",
		Confidence:     0.9,
	}, testResume())
	assert.Equal(t, "https://linkedin.com/in/ada", got.SuggestedValue)

	got = guardAnswer(intent.LinkedInURL, &modelAnswer{
		SuggestedValue: "https://linkedin.com/in/ada",
		Confidence:     0.9,
	}, testResume())
	assert.Equal(t, "https://linkedin.com/in/ada", got.SuggestedValue)

	got = guardAnswer(intent.GenericURL, &modelAnswer{
		SuggestedValue: "http://example.com",
		Confidence:     0.9,
	}, testResume())
	assert.Equal(t, "http://example.com", got.SuggestedValue)

	// Non-URL intents are never prefixed.
	got = guardAnswer(intent.GenericText, &modelAnswer{
		SuggestedValue: "example.com",
		Confidence:     0.9,
	}, testResume())
	assert.Equal(t, "example.com", got.SuggestedValue)
}

func TestIsSkillDump_EmptySkills(t *testing.T) {
	t.Parallel()
	assert.False(t, isSkillDump("Go Python Kubernetes", nil))
}
