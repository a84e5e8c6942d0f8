// Package tokencount estimates prompt token counts for local models.
//
// It uses tiktoken-go with the cl100k_base encoding as a reasonable proxy for
// llama-family tokenizers; when no encoding is available (offline builds) it
// falls back to a chars/4 estimate. Counts feed metrics only, never gating.
package tokencount

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/jobautofill/backend/internal/domain"
)

var (
	mu        sync.Mutex
	encodings = map[string]*tiktoken.Tiktoken{}
)

// NormalizeModelName strips the Ollama tag suffix ("llama3.1:8b" -> "llama3.1").
func NormalizeModelName(model string) string {
	if i := strings.IndexByte(model, ':'); i >= 0 {
		return model[:i]
	}
	return model
}

func encodingFor(model string) *tiktoken.Tiktoken {
	key := NormalizeModelName(model)
	mu.Lock()
	defer mu.Unlock()
	if enc, ok := encodings[key]; ok {
		return enc
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil
	}
	encodings[key] = enc
	return enc
}

// CountText counts the tokens of one text block.
func CountText(model, text string) int {
	if text == "" {
		return 0
	}
	enc := encodingFor(model)
	if enc == nil {
		return Estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// CountMessages counts the tokens of a chat message slice, with a small fixed
// per-message overhead for role framing.
func CountMessages(model string, messages []domain.ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += CountText(model, m.Content) + 4
	}
	return total
}

// Estimate approximates tokens as len/4, the usual rule of thumb for English.
func Estimate(text string) int {
	n := len(text) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}
