package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"prereq-orchestrator/internal/domain"
)

// ResolveTopicInput carries the single caller-supplied parameter.
type ResolveTopicInput struct {
	Topic string
}

// ResolveTopicOutput is the assembled pipeline result plus diagnostics.
type ResolveTopicOutput struct {
	Topic        domain.Topic
	Candidates   []string
	Hallucinated int
	ResolutionID string
}

// ResolveTopicUsecase runs the prerequisite resolution pipeline:
// resolve topic metadata, resolve linked-candidate metadata, filter and
// rank, prompt-select, validate, assemble.
type ResolveTopicUsecase interface {
	Execute(ctx context.Context, input ResolveTopicInput) (*ResolveTopicOutput, error)
}

// ResolveTopicConfig bounds the pipeline's fetch and filter stages.
type ResolveTopicConfig struct {
	// TopicLinkLimit is the per-request outbound-link page size for the
	// subject topic's own fetch.
	TopicLinkLimit int
	// TopicContinues is the continuation budget for the subject topic.
	TopicContinues int
	// LinkedContinues is the per-batch continuation budget for the
	// candidate metadata fetch.
	LinkedContinues int
	ViewMinimum     int
	MaxCandidates   int
}

type resolveTopicUsecase struct {
	source        domain.TopicSource
	completion    domain.CompletionClient
	promptBuilder PrereqPromptBuilder
	cfg           ResolveTopicConfig
	logger        *slog.Logger
}

// NewResolveTopicUsecase wires the pipeline stages together.
func NewResolveTopicUsecase(
	source domain.TopicSource,
	completion domain.CompletionClient,
	promptBuilder PrereqPromptBuilder,
	cfg ResolveTopicConfig,
	logger *slog.Logger,
) ResolveTopicUsecase {
	return &resolveTopicUsecase{
		source:        source,
		completion:    completion,
		promptBuilder: promptBuilder,
		cfg:           cfg,
		logger:        logger,
	}
}

func (u *resolveTopicUsecase) Execute(ctx context.Context, input ResolveTopicInput) (*ResolveTopicOutput, error) {
	title := strings.TrimSpace(input.Topic)
	if title == "" {
		return nil, fmt.Errorf("topic is required")
	}
	resolutionID := uuid.NewString()

	// 1. Resolve the subject topic. Failure here is non-fatal: an
	// unknown title simply yields an empty record and the pipeline
	// degrades to a Topic with no enrichment.
	topicInfo := u.source.GetTopicInfo(ctx,
		[]string{title},
		[]domain.Property{domain.PropertyLinks, domain.PropertyDescription, domain.PropertyImage},
		map[string]string{"pllimit": strconv.Itoa(u.cfg.TopicLinkLimit)},
		u.cfg.TopicContinues,
	)
	meta := topicInfo[title]

	// 2. Resolve candidate metadata for every outbound link.
	candidateMeta := u.source.GetTopicInfo(ctx,
		meta.Links,
		[]domain.Property{domain.PropertyDescription, domain.PropertyPageviews},
		nil,
		u.cfg.LinkedContinues,
	)

	// 3. Filter and rank.
	candidates := FilterCandidates(meta.Links, candidateMeta, u.cfg.ViewMinimum, u.cfg.MaxCandidates)

	// 4-5. Prompt-select and validate against the candidate universe.
	selected, hallucinated := u.selectPrereqs(ctx, title, candidates)

	u.logger.Info("topic resolved",
		slog.String("resolution_id", resolutionID),
		slog.String("topic", title),
		slog.Int("links", len(meta.Links)),
		slog.Int("candidates", len(candidates)),
		slog.Int("prereqs", len(selected)),
		slog.Int("hallucinated", hallucinated))

	// 6. Assemble, restricting metadata to the validated titles. Keys
	// keep the candidate set's original casing.
	prereqs := make(domain.TopicsMetadata, len(selected))
	for _, t := range selected {
		prereqs[t] = candidateMeta[t]
	}

	return &ResolveTopicOutput{
		Topic: domain.Topic{
			Title:       title,
			Description: meta.Description,
			Image:       meta.Image,
			Prereqs:     prereqs,
		},
		Candidates:   candidates,
		Hallucinated: hallucinated,
		ResolutionID: resolutionID,
	}, nil
}

// selectPrereqs asks the completion service to choose prerequisites
// from the ranked candidates and intersects its free-text answer with
// the candidate set. Titles outside the set are hallucinations: counted
// for diagnostics and discarded, never surfaced as an error.
func (u *resolveTopicUsecase) selectPrereqs(ctx context.Context, topic string, candidates []string) ([]string, int) {
	if len(candidates) == 0 {
		return nil, 0
	}

	prompt := u.promptBuilder.Build(topic, candidates)
	text, status := u.completion.Complete(ctx, prompt)
	if status != domain.StatusOkay {
		u.logger.Warn("completion unavailable",
			slog.String("topic", topic),
			slog.String("status", status.String()),
			slog.String("detail", text))
		return nil, 0
	}

	byLower := make(map[string]string, len(candidates))
	for _, c := range candidates {
		byLower[strings.ToLower(c)] = c
	}

	var valid []string
	chosen := make(map[string]struct{})
	hallucinated := 0
	for _, proposal := range ParseNumberedList(text) {
		if proposal == "" {
			continue
		}
		original, ok := byLower[strings.ToLower(proposal)]
		if !ok {
			hallucinated++
			continue
		}
		if _, dup := chosen[original]; dup {
			continue
		}
		chosen[original] = struct{}{}
		valid = append(valid, original)
	}

	if hallucinated > 0 {
		u.logger.Warn("completion proposed titles outside the candidate set",
			slog.String("topic", topic),
			slog.Int("count", hallucinated))
	}
	return valid, hallucinated
}
