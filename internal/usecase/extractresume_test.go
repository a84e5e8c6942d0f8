package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobautofill/backend/internal/config"
	"github.com/jobautofill/backend/internal/domain"
)

func newTestExtraction(repo *fakeRepo, gw *fakeGateway) *ExtractionService {
	models := NewModelService(gw, "llama3.1:8b", time.Second)
	return NewExtractionService(repo, gw, models, config.DefaultPrompts(), time.Second)
}

func TestExtract_SanitizesAndStores(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rec: &domain.ResumeRecord{ID: "r1", RawText: "Ada Lovelace resume text"}}
	// The model hands back single-element arrays where scalars were asked for.
	gw := &fakeGateway{chatFn: func(_ string, messages []domain.ChatMessage) (string, error) {
		assert.Contains(t, messages[0].Content, "Ada Lovelace resume text")
		assert.Contains(t, messages[0].Content, "resume parser")
		return `{
			"personal_info": {"name": ["Ada Lovelace"], "email": "ada@example.com", "phone": "", "linkedin": "", "github": ""},
			"education": [{"degree": "B.Tech", "institution": "Cambridge Institute", "year": ["2024"], "score": ["8.4", "CGPA"]}],
			"experience": [],
			"skills": [["Go", "Python"], "Kubernetes"]
		}`, nil
	}}

	svc := newTestExtraction(repo, gw)
	resume, err := svc.Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", resume.PersonalInfo.Name)
	assert.Equal(t, "2024", resume.Education[0].Year)
	assert.Equal(t, "8.4, CGPA", resume.Education[0].Score)
	assert.Equal(t, []string{"Go", "Python", "Kubernetes"}, resume.Skills)

	// The sanitized JSON is persisted and Current binds it back.
	rec, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ExtractedJSON)

	again, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resume, again)
}

func TestExtract_NoResume(t *testing.T) {
	t.Parallel()

	svc := newTestExtraction(&fakeRepo{}, &fakeGateway{})
	_, err := svc.Extract(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoResume)
}

func TestExtract_GatewayError(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rec: &domain.ResumeRecord{ID: "r1", RawText: "text"}}
	gw := &fakeGateway{chatFn: func(string, []domain.ChatMessage) (string, error) {
		return "", domain.ErrUpstreamTimeout
	}}
	svc := newTestExtraction(repo, gw)

	_, err := svc.Extract(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamTimeout)

	rec, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.ExtractedJSON, "failed extraction must not persist")
}

func TestExtract_UnboundableOutput(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rec: &domain.ResumeRecord{ID: "r1", RawText: "text"}}
	gw := &fakeGateway{chatFn: func(string, []domain.ChatMessage) (string, error) {
		return "Sure! Here is the JSON you asked for:", nil
	}}
	svc := newTestExtraction(repo, gw)

	_, err := svc.Extract(context.Background())
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestCurrent_NoExtraction(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rec: &domain.ResumeRecord{ID: "r1", RawText: "text"}}
	svc := newTestExtraction(repo, &fakeGateway{})

	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoExtraction)
}
