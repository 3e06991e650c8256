package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/mathforge/curriculum-backend/internal/data/repos"
	pkgerrors "github.com/mathforge/curriculum-backend/internal/pkg/errors"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

const defaultBackfillBatchSize = 50

type BackfillOptions struct {
	BatchSize         int  `json:"batchSize,omitempty"`
	Limit             int  `json:"limit,omitempty"`
	RecomputeExisting bool `json:"recomputeExisting,omitempty"`
	DryRun            bool `json:"dryRun,omitempty"`
}

type BackfillResult struct {
	Updated      int `json:"updated"`
	Skipped      int `json:"skipped"`
	Batches      int `json:"batches"`
	PromptTokens int `json:"promptTokens"`
	TotalTokens  int `json:"totalTokens"`
}

type EmbeddingBackfillService interface {
	Backfill(ctx context.Context, opts BackfillOptions) (*BackfillResult, error)
}

type embeddingBackfillService struct {
	exercises repos.ExerciseRepo
	embedder  EmbeddingService
	log       *logger.Logger
}

func NewEmbeddingBackfillService(exercises repos.ExerciseRepo, embedder EmbeddingService, log *logger.Logger) EmbeddingBackfillService {
	return &embeddingBackfillService{exercises: exercises, embedder: embedder, log: log}
}

// Backfill walks exercises in batches and stores an embedding of each
// question. With skip-existing semantics the filtered set shrinks as rows are
// written, so the offset only advances past rows the run leaves in place.
func (s *embeddingBackfillService) Backfill(ctx context.Context, opts BackfillOptions) (*BackfillResult, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("embedding client is not configured: %w", pkgerrors.ErrInvalidArgument)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBackfillBatchSize
	}
	skipExisting := !opts.RecomputeExisting

	result := &BackfillResult{}
	offset := 0
	for {
		take := batchSize
		if opts.Limit > 0 {
			remaining := opts.Limit - (result.Updated + result.Skipped)
			if remaining <= 0 {
				break
			}
			if remaining < take {
				take = remaining
			}
		}

		rows, err := s.exercises.ListMissingEmbeddings(ctx, nil, take, offset, skipExisting)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		result.Batches++

		leftInPlace := 0
		for _, row := range rows {
			if skipExisting && row.QuestionEmbedding != nil {
				result.Skipped++
				leftInPlace++
				continue
			}
			if strings.TrimSpace(row.Question) == "" {
				result.Skipped++
				leftInPlace++
				continue
			}

			embedded, err := s.embedder.Embed(ctx, row.Question)
			if err != nil {
				return nil, fmt.Errorf("embed exercise %s: %w", row.ID, err)
			}
			if embedded == nil {
				result.Skipped++
				leftInPlace++
				continue
			}
			result.PromptTokens += embedded.PromptTokens
			result.TotalTokens += embedded.TotalTokens

			if opts.DryRun {
				result.Updated++
				continue
			}
			vec := pgvector.NewVector(embedded.Embedding)
			if err := s.exercises.UpdateQuestionEmbedding(ctx, nil, row.ID, vec); err != nil {
				return nil, err
			}
			result.Updated++
		}

		// Rows written under skip-existing drop out of the next query, so only
		// rows this pass left behind move the window. Without the filter the
		// set is stable and the whole batch advances it.
		if opts.DryRun || !skipExisting {
			offset += len(rows)
		} else {
			offset += leftInPlace
		}

		if len(rows) < take {
			break
		}
	}

	s.log.Info("embedding backfill finished",
		"updated", result.Updated,
		"skipped", result.Skipped,
		"batches", result.Batches,
		"dry_run", opts.DryRun,
		"total_tokens", result.TotalTokens,
	)
	return result, nil
}
