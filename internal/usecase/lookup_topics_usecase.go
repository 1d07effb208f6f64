package usecase

import (
	"context"
	"strings"

	"prereq-orchestrator/internal/domain"
)

// LookupTopicsUsecase fetches display metadata for an arbitrary list of
// titles in one batched call.
type LookupTopicsUsecase interface {
	Execute(ctx context.Context, titles []string) (domain.TopicsMetadata, error)
}

type lookupTopicsUsecase struct {
	source       domain.TopicSource
	maxContinues int
}

// NewLookupTopicsUsecase creates the batch lookup usecase.
func NewLookupTopicsUsecase(source domain.TopicSource, maxContinues int) LookupTopicsUsecase {
	return &lookupTopicsUsecase{
		source:       source,
		maxContinues: maxContinues,
	}
}

func (u *lookupTopicsUsecase) Execute(ctx context.Context, titles []string) (domain.TopicsMetadata, error) {
	valid := make([]string, 0, len(titles))
	for _, title := range titles {
		if strings.TrimSpace(title) != "" {
			valid = append(valid, title)
		}
	}
	if len(valid) == 0 {
		return domain.TopicsMetadata{}, nil
	}

	metadata := u.source.GetTopicInfo(ctx,
		valid,
		[]domain.Property{domain.PropertyDescription, domain.PropertyImage},
		nil,
		u.maxContinues,
	)
	return metadata, nil
}
