package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/intent"
)

func decodeContext(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestBuildFocusedContext_SkillList(t *testing.T) {
	t.Parallel()

	m := decodeContext(t, buildFocusedContext(intent.SkillList, testResume()))
	assert.Contains(t, m, "skills")
	assert.NotContains(t, m, "experience")
	assert.NotContains(t, m, "education")
	assert.NotContains(t, m, "personal_info")
}

func TestBuildFocusedContext_Education(t *testing.T) {
	t.Parallel()

	for _, it := range []intent.Type{intent.EducationInstitution, intent.EducationDegree, intent.EducationYear} {
		m := decodeContext(t, buildFocusedContext(it, testResume()))
		assert.Contains(t, m, "education", "intent %s", it)
		assert.Len(t, m, 1, "intent %s", it)
	}
}

func TestBuildFocusedContext_URLProfiles(t *testing.T) {
	t.Parallel()

	m := decodeContext(t, buildFocusedContext(intent.GitHubURL, testResume()))
	profile, ok := m["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/ada", profile["github"])
	assert.NotContains(t, profile, "linkedin")

	m = decodeContext(t, buildFocusedContext(intent.LinkedInURL, testResume()))
	profile, ok = m["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://linkedin.com/in/ada", profile["linkedin"])

	m = decodeContext(t, buildFocusedContext(intent.PortfolioURL, testResume()))
	profile, ok = m["profile"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, profile, "linkedin")
	assert.Contains(t, profile, "github")
}

func TestBuildFocusedContext_MotivationCombinesSections(t *testing.T) {
	t.Parallel()

	m := decodeContext(t, buildFocusedContext(intent.Motivation, testResume()))
	assert.Contains(t, m, "experience")
	assert.Contains(t, m, "skills")
}

func TestBuildFocusedContext_FallbackToSnapshot(t *testing.T) {
	t.Parallel()

	// No mapping for generic text: full snapshot.
	m := decodeContext(t, buildFocusedContext(intent.GenericText, testResume()))
	assert.Contains(t, m, "personal_info")
	assert.Contains(t, m, "skills")

	// Mapped intent but empty section: also the full snapshot.
	m = decodeContext(t, buildFocusedContext(intent.SkillList, domain.StructuredResume{
		PersonalInfo: domain.PersonalInfo{Name: "Ada Lovelace"},
	}))
	assert.Contains(t, m, "personal_info")
}
