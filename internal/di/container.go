package di

import (
	"log/slog"
	"time"

	"prereq-orchestrator/internal/adapter/completion"
	"prereq-orchestrator/internal/adapter/graphstore"
	"prereq-orchestrator/internal/adapter/wiki"
	"prereq-orchestrator/internal/infra/config"
	"prereq-orchestrator/internal/infra/httpclient"
	"prereq-orchestrator/internal/usecase"
	"prereq-orchestrator/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	WikiClient *wiki.Client

	ResolveUsecase usecase.ResolveTopicUsecase
	LookupUsecase  usecase.LookupTopicsUsecase
	SearchUsecase  usecase.SearchTopicsUsecase

	// Optional: nil when no graph store is configured
	GraphStore   *graphstore.RedisStore
	Mirror       *usecase.GraphMirror
	MirrorWorker *worker.MirrorWorker
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	// Shared HTTP clients with connection pooling
	wikiHTTP := httpclient.NewPooledClient(time.Duration(cfg.WikiTimeout) * time.Second)
	completionHTTP := httpclient.NewPooledClient(time.Duration(cfg.CompletionTimeout) * time.Second)

	// External clients
	wikiClient := wiki.NewClient(cfg.WikiAPIURL, wikiHTTP, cfg.WikiRateLimit, cfg.WikiBatchSize, log)
	completionClient := completion.NewClient(
		cfg.CompletionURL, cfg.OpenAIAPIKey, cfg.CompletionModel,
		cfg.CompletionMaxTokens, completionHTTP, log,
	)
	if cfg.OpenAIAPIKey == "" {
		log.Warn("no completion credential configured, prerequisite selection disabled")
	}

	// Usecases
	resolveUsecase := usecase.NewResolveTopicUsecase(
		wikiClient, completionClient, usecase.NewPrereqPromptBuilder(),
		usecase.ResolveTopicConfig{
			TopicLinkLimit:  cfg.TopicLinkLimit,
			TopicContinues:  cfg.TopicContinues,
			LinkedContinues: cfg.LinkedContinues,
			ViewMinimum:     cfg.ViewMinimum,
			MaxCandidates:   cfg.MaxCandidates,
		},
		log,
	)
	lookupUsecase := usecase.NewLookupTopicsUsecase(wikiClient, cfg.LinkedContinues)
	searchUsecase := usecase.NewSearchTopicsUsecase(wikiClient, cfg.SearchMinWords, log)

	components := &ApplicationComponents{
		WikiClient:     wikiClient,
		ResolveUsecase: resolveUsecase,
		LookupUsecase:  lookupUsecase,
		SearchUsecase:  searchUsecase,
	}

	// Optional graph store
	if cfg.RedisURL != "" {
		store, err := graphstore.NewRedisStore(cfg.RedisURL, cfg.GraphPrefix, cfg.GraphCacheSize, log)
		if err != nil {
			return nil, err
		}
		mirror := usecase.NewGraphMirror(store, log)
		components.GraphStore = store
		components.Mirror = mirror
		components.MirrorWorker = worker.NewMirrorWorker(mirror, cfg.MirrorQueueSize, log)
		log.Info("graph_store_enabled", slog.String("prefix", cfg.GraphPrefix))
	}

	return components, nil
}
