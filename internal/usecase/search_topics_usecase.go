package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"prereq-orchestrator/internal/domain"
)

// SearchTopicsUsecase runs a full-text topic search, dropping stub
// articles below the word-count floor.
type SearchTopicsUsecase interface {
	Execute(ctx context.Context, query string) ([]domain.SearchHit, error)
}

type searchTopicsUsecase struct {
	source       domain.TopicSource
	minWordcount int
	logger       *slog.Logger
}

// NewSearchTopicsUsecase creates the search usecase.
func NewSearchTopicsUsecase(source domain.TopicSource, minWordcount int, logger *slog.Logger) SearchTopicsUsecase {
	return &searchTopicsUsecase{
		source:       source,
		minWordcount: minWordcount,
		logger:       logger,
	}
}

func (u *searchTopicsUsecase) Execute(ctx context.Context, query string) ([]domain.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	hits, status := u.source.Search(ctx, query)
	if status != domain.StatusOkay {
		// Degrade to an empty result; search is best effort.
		u.logger.Warn("topic search failed",
			slog.String("query", query),
			slog.String("status", status.String()))
		return []domain.SearchHit{}, nil
	}

	filtered := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Wordcount > u.minWordcount {
			filtered = append(filtered, hit)
		}
	}
	return filtered, nil
}
