package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jobautofill/backend/internal/domain"
)

// ModelService holds the process-wide active model name and answers model
// management calls. The active name is the only shared mutable state in the
// resolution path: reads are atomic, and a swap is visible to every request
// issued after Swap returns. In-flight requests keep the name they captured.
type ModelService struct {
	gateway      domain.ModelGateway
	active       atomic.Pointer[string]
	probeTimeout time.Duration
}

// NewModelService constructs a ModelService with the given initial model.
func NewModelService(gateway domain.ModelGateway, initial string, probeTimeout time.Duration) *ModelService {
	s := &ModelService{gateway: gateway, probeTimeout: probeTimeout}
	s.active.Store(&initial)
	return s
}

// Active returns the current active model name.
func (s *ModelService) Active() string {
	return *s.active.Load()
}

// Swap probes that name is available on the gateway, then commits it as the
// active model. The probe is timeout-bounded so an unresponsive gateway cannot
// hang an administrative call. A missing model returns domain.ErrNotFound and
// leaves the active model unchanged.
func (s *ModelService) Swap(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("op=models.Swap: empty model name: %w", domain.ErrInvalidArgument)
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()
	ok, err := s.gateway.HasModel(probeCtx, name)
	if err != nil {
		return fmt.Errorf("op=models.Swap: probe %s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("op=models.Swap: model %s: %w", name, domain.ErrNotFound)
	}

	n := name
	s.active.Store(&n)
	return nil
}

// List returns the models the gateway knows about.
func (s *ModelService) List(ctx context.Context) ([]domain.ModelInfo, error) {
	models, err := s.gateway.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=models.List: %w", err)
	}
	return models, nil
}
