package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"prereq-orchestrator/internal/domain"
)

// GraphMirror writes resolved topics and bookmarks into the shared
// graph store so every connected client converges on the same
// prerequisite relationships. Mirroring is best effort: a failed edge
// write is logged and the remaining edges are still attempted.
type GraphMirror struct {
	store  domain.GraphStore
	logger *slog.Logger
}

// NewGraphMirror creates a mirror over the given store.
func NewGraphMirror(store domain.GraphStore, logger *slog.Logger) *GraphMirror {
	return &GraphMirror{store: store, logger: logger}
}

// MirrorTopic records the topic node and its prerequisite edges:
// topic -> prereqs and prereq -> leads-to, plus the description and
// image values under the topic's path.
func (m *GraphMirror) MirrorTopic(ctx context.Context, topic domain.Topic) error {
	var firstErr error
	record := func(err error) {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			m.logger.Warn("graph mirror write failed",
				slog.String("topic", topic.Title),
				slog.String("error", err.Error()))
		}
	}

	if topic.Description != "" {
		record(m.store.Put(ctx, topic.Description, topic.Title, "description"))
	}
	if topic.Image != "" {
		record(m.store.Put(ctx, topic.Image, topic.Title, "image"))
	}
	for prereq := range topic.Prereqs {
		record(m.store.SetMember(ctx, prereq, topic.Title, "prereqs"))
		record(m.store.SetMember(ctx, topic.Title, prereq, "leads-to"))
	}
	return firstErr
}

// SetBookmark flips the bookmark flag for a title and keeps the
// bookmark index set in sync.
func (m *GraphMirror) SetBookmark(ctx context.Context, title string, bookmarked bool) error {
	if err := m.store.Put(ctx, strconv.FormatBool(bookmarked), "user", "bookmarks", title); err != nil {
		return fmt.Errorf("failed to store bookmark: %w", err)
	}
	if bookmarked {
		return m.store.SetMember(ctx, title, "user", "bookmarks")
	}
	return m.store.RemoveMember(ctx, title, "user", "bookmarks")
}

// Bookmarks lists the currently bookmarked titles.
func (m *GraphMirror) Bookmarks(ctx context.Context) ([]string, error) {
	return m.store.Members(ctx, "user", "bookmarks")
}

// WatchBookmark streams bookmark flag changes for a title.
func (m *GraphMirror) WatchBookmark(ctx context.Context, title string) (<-chan string, func(), error) {
	return m.store.Observe(ctx, "user", "bookmarks", title)
}
