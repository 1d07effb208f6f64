package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prereq-orchestrator/internal/domain"
	"prereq-orchestrator/internal/usecase"
)

func TestSearchTopics_FiltersStubArticles(t *testing.T) {
	source := &stubTopicSource{
		hits: []domain.SearchHit{
			{Title: "Control theory", Wordcount: 9000},
			{Title: "Control theory (disambiguation)", Wordcount: 120},
			{Title: "Optimal control", Wordcount: 4500},
		},
		status: domain.StatusOkay,
	}

	uc := usecase.NewSearchTopicsUsecase(source, 3000, testLogger())
	hits, err := uc.Execute(context.Background(), "control")
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "Control theory", hits[0].Title)
	assert.Equal(t, "Optimal control", hits[1].Title)
}

func TestSearchTopics_EmptyQueryIsAnError(t *testing.T) {
	uc := usecase.NewSearchTopicsUsecase(&stubTopicSource{}, 3000, testLogger())
	_, err := uc.Execute(context.Background(), "  ")
	require.Error(t, err)
}

func TestSearchTopics_UpstreamFailureDegradesToEmpty(t *testing.T) {
	source := &stubTopicSource{status: domain.StatusUpstreamFailure}

	uc := usecase.NewSearchTopicsUsecase(source, 3000, testLogger())
	hits, err := uc.Execute(context.Background(), "control")
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NotNil(t, hits)
}
