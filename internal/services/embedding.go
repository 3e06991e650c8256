package services

import (
	"context"

	"github.com/mathforge/curriculum-backend/internal/platform/openai"
)

type EmbeddingResult = openai.EmbeddingResult

// EmbeddingService is the text-to-vector oracle. A nil result with a nil
// error means the oracle had nothing to say for the input; callers fall back
// to non-vector behavior.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) (*EmbeddingResult, error)
}
