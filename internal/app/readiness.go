package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jobautofill/backend/internal/config"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// RedisPingResult is the minimal return type of a Redis client's Ping.
type RedisPingResult interface{ Err() error }

// RedisPinger is the minimal Redis client surface needed for readiness.
type RedisPinger interface{ Ping(ctx context.Context) RedisPingResult }

// BuildReadinessChecks returns readiness checks for db, redis, ollama, and
// tika. Optional collaborators (nil pool or redis) return nil checks so they
// are skipped rather than reported as failing.
func BuildReadinessChecks(cfg config.Config, pool Pinger, rdb RedisPinger) (
	dbCheck func(ctx context.Context) error,
	redisCheck func(ctx context.Context) error,
	ollamaCheck func(ctx context.Context) error,
	tikaCheck func(ctx context.Context) error,
) {
	if pool != nil {
		dbCheck = func(ctx context.Context) error { return pool.Ping(ctx) }
	}
	if rdb != nil {
		redisCheck = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	ollamaCheck = httpCheck(cfg.OllamaBaseURL+"/api/tags", "ollama")
	if cfg.TikaURL != "" {
		tikaCheck = httpCheck(cfg.TikaURL+"/version", "tika")
	}
	return dbCheck, redisCheck, ollamaCheck, tikaCheck
}

func httpCheck(url, name string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		client := &http.Client{Timeout: 2 * time.Second}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("%s status %d", name, resp.StatusCode)
	}
}
