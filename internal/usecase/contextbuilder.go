package usecase

import (
	"encoding/json"

	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/intent"
)

// buildFocusedContext renders only the resume sections relevant to the intent
// as JSON, so the model prompt is not dominated by unrelated resume noise.
// Falls back to the full resume snapshot when the intent has no dedicated
// mapping or the relevant sections are empty.
func buildFocusedContext(t intent.Type, r domain.StructuredResume) string {
	focused := map[string]any{}

	switch t {
	case intent.SkillList:
		if r.HasSkills() {
			focused["skills"] = r.Skills
		}
	case intent.ExperienceSummary:
		if r.HasExperience() {
			focused["experience"] = r.Experience
		}
	case intent.EducationInstitution, intent.EducationDegree, intent.EducationYear:
		if r.HasEducation() {
			focused["education"] = r.Education
		}
	case intent.GitHubURL:
		if r.HasGitHub() {
			focused["profile"] = map[string]string{"github": r.PersonalInfo.GitHub}
		}
	case intent.LinkedInURL:
		if r.HasLinkedIn() {
			focused["profile"] = map[string]string{"linkedin": r.PersonalInfo.LinkedIn}
		}
	case intent.PortfolioURL, intent.GenericURL:
		profile := map[string]string{}
		if r.HasLinkedIn() {
			profile["linkedin"] = r.PersonalInfo.LinkedIn
		}
		if r.HasGitHub() {
			profile["github"] = r.PersonalInfo.GitHub
		}
		if len(profile) > 0 {
			focused["profile"] = profile
		}
	case intent.Motivation:
		if r.HasExperience() {
			focused["experience"] = r.Experience
		}
		if r.HasSkills() {
			focused["skills"] = r.Skills
		}
	}

	if len(focused) == 0 {
		return resumeSnapshot(r)
	}
	b, err := json.Marshal(focused)
	if err != nil {
		return resumeSnapshot(r)
	}
	return string(b)
}

// resumeSnapshot renders the whole structured resume as JSON.
func resumeSnapshot(r domain.StructuredResume) string {
	b, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(b)
}
