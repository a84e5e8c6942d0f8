package usecase

import (
	"strings"

	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/intent"
)

// modelAnswer is the four-field JSON shape the resolution prompt asks for.
type modelAnswer struct {
	SuggestedValue string  `json:"suggested_value"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	FieldMatched   string  `json:"field_matched"`
}

// guardAnswer validates a model answer before it reaches the caller. Steps run
// in order: nil answer, the EMPTY marker, the skill-dump check, then URL
// normalization. The answer is otherwise passed through untouched.
func guardAnswer(t intent.Type, ans *modelAnswer, r domain.StructuredResume) domain.ResolvedField {
	if ans == nil {
		return domain.ResolvedField{
			SuggestedValue: "",
			Confidence:     0.0,
			Reasoning:      "Model returned null response",
			FieldMatched:   domain.SourceLLMError,
		}
	}

	value := strings.TrimSpace(ans.SuggestedValue)

	if strings.EqualFold(value, "EMPTY") {
		reasoning := ans.Reasoning
		if reasoning == "" {
			reasoning = "Model found no relevant data"
		}
		matched := ans.FieldMatched
		if matched == "" {
			matched = domain.SourceNoData
		}
		return domain.ResolvedField{
			SuggestedValue: "",
			Confidence:     0.1,
			Reasoning:      reasoning,
			FieldMatched:   matched,
		}
	}

	if t != intent.SkillList && isSkillDump(value, r.Skills) {
		return domain.ResolvedField{
			SuggestedValue: "",
			Confidence:     0.0,
			Reasoning:      "Discarded AI output that did not match intent",
			FieldMatched:   domain.SourceIntentGuard,
		}
	}

	if t.IsURL() && value != "" &&
		!strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		value = "https://" + value
	}

	return domain.ResolvedField{
		SuggestedValue: value,
		Confidence:     ans.Confidence,
		Reasoning:      ans.Reasoning,
		FieldMatched:   ans.FieldMatched,
	}
}

// isSkillDump reports whether the answer looks like the resume's skill list
// pasted onto an unrelated field: at least max(3, len(skills)/2) skills appear
// as case-insensitive substrings.
func isSkillDump(value string, skills []string) bool {
	if len(skills) == 0 {
		return false
	}
	threshold := len(skills) / 2
	if threshold < 3 {
		threshold = 3
	}
	lower := strings.ToLower(value)
	hits := 0
	for _, s := range skills {
		s = strings.TrimSpace(strings.ToLower(s))
		if s != "" && strings.Contains(lower, s) {
			hits++
			if hits >= threshold {
				return true
			}
		}
	}
	return false
}
