package ollama

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"log/slog"

	"github.com/jobautofill/backend/internal/domain"
)

// chatCache wraps a ModelGateway and caches chat completions in Redis, keyed
// by a hash of model plus messages. Resumes change rarely while the same form
// fields repeat across applications, so identical prompts are common. Only
// Chat is cached; model management calls pass through.
type chatCache struct {
	base domain.ModelGateway
	rdb  *redis.Client
	ttl  time.Duration
}

// NewChatCache wraps base with a Redis-backed completion cache. A nil client
// or non-positive TTL returns base unmodified.
func NewChatCache(base domain.ModelGateway, rdb *redis.Client, ttl time.Duration) domain.ModelGateway {
	if rdb == nil || ttl <= 0 {
		return base
	}
	return &chatCache{base: base, rdb: rdb, ttl: ttl}
}

func (c *chatCache) Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	key := chatKey(model, messages)

	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil && cached != "" {
		slog.Debug("chat cache hit", slog.String("model", model))
		return cached, nil
	}

	content, err := c.base.Chat(ctx, model, messages)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, content, c.ttl).Err(); err != nil {
		// Cache writes are best effort.
		slog.Warn("chat cache write failed", slog.Any("error", err))
	}
	return content, nil
}

func (c *chatCache) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	return c.base.ListModels(ctx)
}

func (c *chatCache) HasModel(ctx context.Context, name string) (bool, error) {
	return c.base.HasModel(ctx, name)
}

func chatKey(model string, messages []domain.ChatMessage) string {
	h := sha256.New()
	h.Write([]byte(model))
	b, _ := json.Marshal(messages)
	h.Write(b)
	return "chat:" + hex.EncodeToString(h.Sum(nil))
}
