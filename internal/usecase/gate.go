package usecase

import (
	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/intent"
)

// Decision is the confidence gate's verdict for one field.
type Decision int

const (
	// UseDeterministic short-circuits with the extractor's answer.
	UseDeterministic Decision = iota
	// Escalate delegates the field to the language model.
	Escalate
	// NoData means the resume has nothing relevant; no model call is made.
	NoData
)

// requiredConfidence is how much deterministic confidence is enough per
// intent. URL fields tolerate the lossy portfolio heuristic; summarizing
// intents demand more before skipping the model.
func requiredConfidence(t intent.Type) float64 {
	switch {
	case t.IsURL():
		return 0.60
	case t == intent.EducationInstitution, t == intent.EducationDegree,
		t == intent.EducationYear, t == intent.ExperienceSummary:
		return 0.75
	case t == intent.Motivation, t == intent.Availability,
		t == intent.Timeline, t == intent.HearAbout:
		return 0.85
	default:
		return 0.80
	}
}

// hasResumeSupport reports whether the resume carries any data that could
// plausibly answer the intent. Unsupported intents never reach the model.
func hasResumeSupport(t intent.Type, r domain.StructuredResume) bool {
	switch t {
	case intent.SkillList:
		return r.HasSkills()
	case intent.ExperienceSummary:
		return r.HasExperience()
	case intent.EducationInstitution, intent.EducationDegree, intent.EducationYear:
		return r.HasEducation()
	case intent.GitHubURL:
		return r.HasGitHub()
	case intent.LinkedInURL, intent.PortfolioURL:
		// The portfolio answer is the LinkedIn URL; without one there is
		// nothing to offer and the model must not invent a link.
		return r.HasLinkedIn()
	case intent.Motivation:
		return r.HasExperience() || r.HasSkills()
	case intent.Availability, intent.Timeline, intent.HearAbout:
		// No resume section models these.
		return false
	default:
		return true
	}
}

// decide gates one field: keep the deterministic answer, escalate to the
// model, or report that the resume has no relevant data.
func decide(t intent.Type, extracted domain.ExtractedValue, r domain.StructuredResume) Decision {
	if extracted.Value != "" && extracted.Confidence >= requiredConfidence(t) {
		return UseDeterministic
	}
	if !hasResumeSupport(t, r) {
		return NoData
	}
	return Escalate
}
