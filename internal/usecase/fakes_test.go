package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jobautofill/backend/internal/config"
	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/extract"
)

type fakeGateway struct {
	mu        sync.Mutex
	chatCalls int
	chatFn    func(model string, messages []domain.ChatMessage) (string, error)
	models    []domain.ModelInfo
	has       map[string]bool
	hasErr    error
	listErr   error
}

func (g *fakeGateway) Chat(_ context.Context, model string, messages []domain.ChatMessage) (string, error) {
	g.mu.Lock()
	g.chatCalls++
	g.mu.Unlock()
	if g.chatFn == nil {
		return "", domain.ErrUpstreamEmpty
	}
	return g.chatFn(model, messages)
}

func (g *fakeGateway) ListModels(context.Context) ([]domain.ModelInfo, error) {
	return g.models, g.listErr
}

func (g *fakeGateway) HasModel(_ context.Context, name string) (bool, error) {
	if g.hasErr != nil {
		return false, g.hasErr
	}
	return g.has[name], nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.chatCalls
}

type fakeRepo struct {
	mu  sync.Mutex
	rec *domain.ResumeRecord
}

func (r *fakeRepo) Save(_ context.Context, rec domain.ResumeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = &rec
	return nil
}

func (r *fakeRepo) Get(context.Context) (domain.ResumeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return domain.ResumeRecord{}, domain.ErrNoResume
	}
	return *r.rec, nil
}

func (r *fakeRepo) SetExtraction(_ context.Context, extractedJSON string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return domain.ErrNoResume
	}
	r.rec.ExtractedJSON = extractedJSON
	return nil
}

func (r *fakeRepo) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = nil
	return nil
}

type fakeTextExtractor struct {
	text string
	err  error
}

func (e *fakeTextExtractor) ExtractPath(context.Context, string, string) (string, error) {
	return e.text, e.err
}

func testResume() domain.StructuredResume {
	return domain.StructuredResume{
		PersonalInfo: domain.PersonalInfo{
			Name:     "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "+44 7700 900123",
			LinkedIn: "https://linkedin.com/in/ada",
			GitHub:   "https://github.com/ada",
		},
		Education: []domain.Education{
			{Degree: "B.Tech Computer Science", Institution: "Cambridge Institute", Year: "2024", Location: "Cambridge, UK"},
		},
		Experience: []domain.Experience{
			{Title: "Software Engineer", Company: "Analytical Engines", Duration: "2024-present", Description: "Built compilers", Location: "London, UK"},
		},
		Skills: []string{"Go", "Python", "Kubernetes", "PostgreSQL", "Redis", "Terraform"},
	}
}

// newTestAutofill wires an AutofillService over a fake repo holding resume and
// a fake gateway answering with chatFn.
func newTestAutofill(t *testing.T, resume domain.StructuredResume, chatFn func(string, []domain.ChatMessage) (string, error)) (*AutofillService, *fakeGateway) {
	t.Helper()

	b, err := json.Marshal(resume)
	require.NoError(t, err)
	repo := &fakeRepo{rec: &domain.ResumeRecord{ID: "r1", RawText: "raw", ExtractedJSON: string(b)}}

	gw := &fakeGateway{chatFn: chatFn, has: map[string]bool{"llama3.1:8b": true}}
	models := NewModelService(gw, "llama3.1:8b", time.Second)
	extraction := NewExtractionService(repo, gw, models, config.DefaultPrompts(), time.Second)
	svc := NewAutofillService(extraction, gw, models, extract.New("India"), config.DefaultPrompts(), time.Second, 4)
	return svc, gw
}
