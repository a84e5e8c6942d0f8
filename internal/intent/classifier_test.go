package intent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/intent"
)

func TestClassify_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   domain.FieldQuery
		want    intent.Type
		minConf float64
	}{
		{"skills_label", domain.FieldQuery{Label: "Technical Skills"}, intent.SkillList, 0.95},
		{"tech_stack_name", domain.FieldQuery{Name: "tech_stack"}, intent.SkillList, 0.95},
		{"github_label", domain.FieldQuery{Label: "GitHub Profile"}, intent.GitHubURL, 0.95},
		{"github_name_mixed_case", domain.FieldQuery{Name: "GiThUb_url"}, intent.GitHubURL, 0.95},
		{"linkedin", domain.FieldQuery{Label: "LinkedIn URL"}, intent.LinkedInURL, 0.95},
		{"portfolio", domain.FieldQuery{Label: "Personal Website"}, intent.PortfolioURL, 0.85},
		{"institution", domain.FieldQuery{Label: "University Name"}, intent.EducationInstitution, 0.85},
		{"degree", domain.FieldQuery{Label: "Degree / Major"}, intent.EducationDegree, 0.8},
		{"grad_year", domain.FieldQuery{Label: "Year of completion"}, intent.EducationYear, 0.8},
		{"experience", domain.FieldQuery{Label: "Work History"}, intent.ExperienceSummary, 0.75},
		{"motivation", domain.FieldQuery{Label: "Why do you want to join us?"}, intent.Motivation, 0.85},
		{"availability", domain.FieldQuery{Label: "Notice Period"}, intent.Availability, 0.85},
		{"timeline", domain.FieldQuery{Placeholder: "expected time frame"}, intent.Timeline, 0.7},
		{"hear_about", domain.FieldQuery{Label: "How did you hear about us?"}, intent.HearAbout, 0.85},
		{"academic_status", domain.FieldQuery{Label: "Which year are you in?"}, intent.AcademicStatus, 0.75},
		{"url_type_fallback", domain.FieldQuery{Label: "Other link", Type: "url"}, intent.GenericURL, 0.5},
		{"generic_text", domain.FieldQuery{Label: "Anything else?"}, intent.GenericText, 0.2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := intent.Classify(tc.query)
			assert.Equal(t, tc.want, res.Type)
			assert.GreaterOrEqual(t, res.Confidence, tc.minConf)
			assert.NotEmpty(t, res.Rationale)
		})
	}
}

func TestClassify_GithubAnywhereHighConfidence(t *testing.T) {
	t.Parallel()
	// Any query mentioning github in label or name classifies as github_url >= 0.95.
	for _, q := range []domain.FieldQuery{
		{Label: "Github"},
		{Name: "candidate_github_link"},
		{Label: "GITHUB handle", Type: "url"},
	} {
		res := intent.Classify(q)
		require.Equal(t, intent.GitHubURL, res.Type)
		require.GreaterOrEqual(t, res.Confidence, 0.95)
	}
}

func TestClassify_PrecedenceOverGenericURL(t *testing.T) {
	t.Parallel()
	// github beats the type=url fallback; skill beats generic text.
	res := intent.Classify(domain.FieldQuery{Label: "GitHub", Type: "url"})
	assert.Equal(t, intent.GitHubURL, res.Type)

	res = intent.Classify(domain.FieldQuery{Label: "Skills", Type: "url"})
	assert.Equal(t, intent.SkillList, res.Type)
}

func TestClassify_EmptyQuery(t *testing.T) {
	t.Parallel()
	res := intent.Classify(domain.FieldQuery{})
	assert.Equal(t, intent.Unknown, res.Type)
	assert.Zero(t, res.Confidence)
}

func TestRules_OrderExposesPrecedence(t *testing.T) {
	t.Parallel()
	rs := intent.Rules()
	require.NotEmpty(t, rs)
	// skill_list is checked before github_url, which precedes linkedin_url.
	assert.Equal(t, intent.SkillList, rs[0].Intent)
	assert.Equal(t, intent.GitHubURL, rs[1].Intent)
	assert.Equal(t, intent.LinkedInURL, rs[2].Intent)
}

func TestTypeIsURL(t *testing.T) {
	t.Parallel()
	assert.True(t, intent.GitHubURL.IsURL())
	assert.True(t, intent.LinkedInURL.IsURL())
	assert.True(t, intent.PortfolioURL.IsURL())
	assert.True(t, intent.GenericURL.IsURL())
	assert.False(t, intent.SkillList.IsURL())
}
