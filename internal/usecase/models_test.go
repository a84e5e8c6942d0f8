package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobautofill/backend/internal/domain"
)

func TestModelService_SwapVisibleAfterReturn(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{has: map[string]bool{"mistral:7b": true}}
	svc := NewModelService(gw, "llama3.1:8b", time.Second)
	assert.Equal(t, "llama3.1:8b", svc.Active())

	require.NoError(t, svc.Swap(context.Background(), "mistral:7b"))
	assert.Equal(t, "mistral:7b", svc.Active())
}

func TestModelService_SwapUnknownModel(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{has: map[string]bool{}}
	svc := NewModelService(gw, "llama3.1:8b", time.Second)

	err := svc.Swap(context.Background(), "nope:1b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "llama3.1:8b", svc.Active(), "failed swap leaves active model unchanged")
}

func TestModelService_SwapProbeError(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{hasErr: errors.New("gateway down")}
	svc := NewModelService(gw, "llama3.1:8b", time.Second)

	err := svc.Swap(context.Background(), "mistral:7b")
	require.Error(t, err)
	assert.Equal(t, "llama3.1:8b", svc.Active())
}

func TestModelService_SwapEmptyName(t *testing.T) {
	t.Parallel()

	svc := NewModelService(&fakeGateway{}, "llama3.1:8b", time.Second)
	assert.ErrorIs(t, svc.Swap(context.Background(), ""), domain.ErrInvalidArgument)
}

func TestModelService_ConcurrentReadsDuringSwaps(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{has: map[string]bool{"a": true, "b": true}}
	svc := NewModelService(gw, "a", time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				// Reads must always observe a complete name.
				name := svc.Active()
				assert.Contains(t, []string{"a", "b"}, name)
			}
		}()
	}
	for j := 0; j < 50; j++ {
		name := "a"
		if j%2 == 0 {
			name = "b"
		}
		require.NoError(t, svc.Swap(context.Background(), name))
	}
	wg.Wait()
}

func TestModelService_List(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{models: []domain.ModelInfo{{Name: "llama3.1:8b", Family: "llama"}}}
	svc := NewModelService(gw, "llama3.1:8b", time.Second)

	models, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "llama3.1:8b", models[0].Name)

	gw.listErr = errors.New("boom")
	_, err = svc.List(context.Background())
	assert.Error(t, err)
}
