package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/mathforge/curriculum-backend/internal/data/repos"
	types "github.com/mathforge/curriculum-backend/internal/domain"
	"github.com/mathforge/curriculum-backend/internal/pkg/logger"
)

const (
	defaultExerciseLimit = 20
	maxExerciseLimit     = 100
)

type ExerciseListParams struct {
	Search string
	Offset int
	Limit  int
}

// ExerciseListItem flattens an exercise with the names of every hierarchy
// node above it, ready for listing screens.
type ExerciseListItem struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Solution  string    `json:"solution"`
	Key       string    `json:"key"`
	HasImage  bool      `json:"hasImage"`
	Grade     string    `json:"grade,omitempty"`
	Textbook  string    `json:"textbook,omitempty"`
	Unit      string    `json:"unit,omitempty"`
	Lesson    string    `json:"lesson,omitempty"`
	Format    string    `json:"format,omitempty"`
	Type      string    `json:"type,omitempty"`
	Distance  *float64  `json:"distance,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ExercisePage struct {
	Items  []ExerciseListItem `json:"items"`
	Total  int64              `json:"total"`
	Offset int                `json:"offset"`
	Limit  int                `json:"limit"`
}

type ExerciseService interface {
	ListExercises(ctx context.Context, params ExerciseListParams) (*ExercisePage, error)
}

type exerciseService struct {
	exercises repos.ExerciseRepo
	embedder  EmbeddingService
	log       *logger.Logger
}

func NewExerciseService(exercises repos.ExerciseRepo, embedder EmbeddingService, log *logger.Logger) ExerciseService {
	return &exerciseService{exercises: exercises, embedder: embedder, log: log}
}

// ListExercises pages through active exercises. A search term is embedded and
// ranked by vector distance when an embedder is wired; when embedding is
// unavailable or fails, the term degrades to a substring match.
func (s *exerciseService) ListExercises(ctx context.Context, params ExerciseListParams) (*ExercisePage, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultExerciseLimit
	}
	if limit > maxExerciseLimit {
		limit = maxExerciseLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	searchParams := repos.ExerciseSearchParams{
		Search: params.Search,
		Offset: offset,
		Limit:  limit,
	}

	if params.Search != "" && s.embedder != nil {
		result, err := s.embedder.Embed(ctx, params.Search)
		switch {
		case err != nil:
			s.log.Warn("search embedding failed, falling back to substring match", "error", err)
		case result != nil:
			vec := pgvector.NewVector(result.Embedding)
			searchParams.Embedding = &vec
		}
	}

	rows, total, err := s.exercises.Search(ctx, nil, searchParams)
	if err != nil {
		return nil, err
	}

	items := make([]ExerciseListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, flattenExercise(row))
	}
	return &ExercisePage{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

func flattenExercise(row *types.Exercise) ExerciseListItem {
	item := ExerciseListItem{
		ID:        row.ID,
		Question:  row.Question,
		Solution:  row.Solution,
		Key:       row.Key,
		HasImage:  row.HasImage,
		Distance:  row.Distance,
		CreatedAt: row.CreatedAt,
	}
	if row.Format != nil {
		item.Format = row.Format.Name
	}
	if row.Type != nil {
		item.Type = row.Type.Name
	}
	if lesson := row.Lesson; lesson != nil {
		item.Lesson = lesson.Name
		if unit := lesson.Unit; unit != nil {
			item.Unit = unit.Name
			if textbook := unit.Textbook; textbook != nil {
				item.Textbook = textbook.Name
				if grade := textbook.Grade; grade != nil {
					item.Grade = grade.Name
				}
			}
		}
	}
	return item
}
