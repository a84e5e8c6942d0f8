// Package intent maps form-field metadata to a semantic intent bucket.
//
// Classification is deterministic and offline so it can run before any model
// call. Rules are an ordered table evaluated first-match-wins; order encodes
// precedence (e.g. "github" must beat the generic URL fallback).
package intent

import (
	"strings"

	"github.com/jobautofill/backend/internal/domain"
)

// Type is the closed set of field intents.
type Type string

// Intent buckets.
const (
	SkillList            Type = "skill_list"
	ExperienceSummary    Type = "experience_summary"
	EducationInstitution Type = "education_institution"
	EducationDegree      Type = "education_degree"
	EducationYear        Type = "education_year"
	Motivation           Type = "motivation"
	Availability         Type = "availability"
	Timeline             Type = "timeline"
	PortfolioURL         Type = "portfolio_url"
	GitHubURL            Type = "github_url"
	LinkedInURL          Type = "linkedin_url"
	GenericURL           Type = "generic_url"
	AcademicStatus       Type = "academic_status"
	HearAbout            Type = "hear_about"
	CoverLetter          Type = "cover_letter"
	GenericText          Type = "text"
	Unknown              Type = "unknown"
)

// IsURL reports whether t is one of the URL-shaped intents.
func (t Type) IsURL() bool {
	return t == PortfolioURL || t == GitHubURL || t == LinkedInURL || t == GenericURL
}

// Result is a classification outcome: the intent plus how sure we are and why.
type Result struct {
	Type       Type
	Confidence float64
	Rationale  string
}

// rule maps a keyword set to an intent at a fixed confidence. The first rule
// whose keywords hit the haystack wins.
type rule struct {
	intent     Type
	confidence float64
	rationale  string
	keywords   []string
}

// rules is ordered by precedence: specific link keywords before the generic
// URL fallback, "skill" before generic text, and so on.
var rules = []rule{
	{SkillList, 0.95, "Detected skill keywords", []string{"skill", "tech stack", "competenc", "expertise"}},
	{GitHubURL, 0.95, "Detected GitHub keyword", []string{"github"}},
	{LinkedInURL, 0.95, "Detected LinkedIn keyword", []string{"linkedin"}},
	{PortfolioURL, 0.85, "Detected portfolio keyword", []string{"portfolio", "website", "site url", "personal site"}},
	{EducationInstitution, 0.85, "Detected education institution keyword", []string{"college", "university", "institution", "school"}},
	{EducationDegree, 0.8, "Detected education degree keyword", []string{"degree", "course", "program", "major"}},
	{EducationYear, 0.8, "Detected education year keyword", []string{"graduation", "grad year", "passing year", "passout", "year of completion"}},
	{ExperienceSummary, 0.75, "Detected experience keyword", []string{"experience", "work history", "professional summary"}},
	{Motivation, 0.85, "Detected motivation keyword", []string{"why", "motivation", "excite", "cover letter", "statement of purpose"}},
	{Availability, 0.85, "Detected availability keyword", []string{"join", "availability", "notice period", "start date"}},
	{Timeline, 0.7, "Detected timeline keyword", []string{"timeline", "time frame"}},
	{HearAbout, 0.85, "Detected referral keyword", []string{"how did you hear", "where did you hear"}},
	{AcademicStatus, 0.75, "Detected academic status keyword", []string{"are you currently in college", "which year are you", "current year", "still in college"}},
	{CoverLetter, 0.8, "Detected cover letter keyword", []string{"cover letter"}},
}

// Rules exposes the ordered rule table as (intent, confidence) pairs so tests
// can assert precedence without re-stating keyword lists.
func Rules() []struct {
	Intent     Type
	Confidence float64
} {
	out := make([]struct {
		Intent     Type
		Confidence float64
	}, len(rules))
	for i, r := range rules {
		out[i].Intent = r.intent
		out[i].Confidence = r.confidence
	}
	return out
}

// Classify maps a field query to an intent with a confidence and rationale.
func Classify(q domain.FieldQuery) Result {
	if q.IsZero() {
		return Result{Unknown, 0.0, "No field metadata provided"}
	}

	haystack := strings.TrimSpace(strings.ToLower(q.Label) + " " + strings.ToLower(q.Name) + " " + strings.ToLower(q.Placeholder))

	for _, r := range rules {
		if containsAny(haystack, r.keywords) {
			return Result{r.intent, r.confidence, r.rationale}
		}
	}

	if q.Type == "url" {
		return Result{GenericURL, 0.5, "Field type is URL"}
	}
	return Result{GenericText, 0.2, "Defaulting to generic text intent"}
}

func containsAny(haystack string, needles []string) bool {
	if haystack == "" {
		return false
	}
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
