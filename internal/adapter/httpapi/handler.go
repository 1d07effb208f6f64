package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"prereq-orchestrator/internal/domain"
	"prereq-orchestrator/internal/usecase"
	"prereq-orchestrator/internal/worker"
)

// Handler exposes the resolution pipeline over HTTP. The graph mirror
// and worker are optional; without them the bookmark routes return 503
// and resolved topics are simply not mirrored.
type Handler struct {
	resolveUsecase usecase.ResolveTopicUsecase
	lookupUsecase  usecase.LookupTopicsUsecase
	searchUsecase  usecase.SearchTopicsUsecase
	mirror         *usecase.GraphMirror
	mirrorWorker   *worker.MirrorWorker
}

func NewHandler(
	resolveUsecase usecase.ResolveTopicUsecase,
	lookupUsecase usecase.LookupTopicsUsecase,
	searchUsecase usecase.SearchTopicsUsecase,
	mirror *usecase.GraphMirror,
	mirrorWorker *worker.MirrorWorker,
) *Handler {
	return &Handler{
		resolveUsecase: resolveUsecase,
		lookupUsecase:  lookupUsecase,
		searchUsecase:  searchUsecase,
		mirror:         mirror,
		mirrorWorker:   mirrorWorker,
	}
}

// Register wires the routes onto the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/v1/topic", h.GetTopic)
	e.GET("/v1/prereqs", h.GetPrereqs)
	e.POST("/v1/topics", h.LookupTopics)
	e.GET("/v1/search", h.SearchTopics)
	e.GET("/v1/bookmarks", h.ListBookmarks)
	e.PUT("/v1/bookmarks/:title", h.SetBookmark)
	e.GET("/v1/bookmarks/:title/events", h.WatchBookmark)
}

// Resolve a topic's description, image, and prerequisites
// (GET /v1/topic?topic=)
func (h *Handler) GetTopic(ctx echo.Context) error {
	topic := ctx.QueryParam("topic")
	if strings.TrimSpace(topic) == "" {
		// Invalid caller input yields null without invoking the core.
		return ctx.JSON(http.StatusOK, nil)
	}

	output, err := h.resolveUsecase.Execute(ctx.Request().Context(), usecase.ResolveTopicInput{Topic: topic})
	if err != nil {
		return ctx.JSON(http.StatusOK, nil)
	}

	if h.mirrorWorker != nil {
		h.mirrorWorker.Enqueue(output.Topic)
	}
	return ctx.JSON(http.StatusOK, output.Topic)
}

// Resolve only the prerequisite titles for a topic
// (GET /v1/prereqs?topic=)
func (h *Handler) GetPrereqs(ctx echo.Context) error {
	topic := ctx.QueryParam("topic")
	if strings.TrimSpace(topic) == "" {
		return ctx.JSON(http.StatusOK, []string{})
	}

	output, err := h.resolveUsecase.Execute(ctx.Request().Context(), usecase.ResolveTopicInput{Topic: topic})
	if err != nil {
		return ctx.JSON(http.StatusOK, []string{})
	}

	titles := make([]string, 0, len(output.Topic.Prereqs))
	for title := range output.Topic.Prereqs {
		titles = append(titles, title)
	}
	return ctx.JSON(http.StatusOK, titles)
}

type lookupRequest struct {
	Titles []string `json:"titles"`
}

// Batch metadata lookup for a list of titles
// (POST /v1/topics)
func (h *Handler) LookupTopics(ctx echo.Context) error {
	var req lookupRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusOK, domain.TopicsMetadata{})
	}

	metadata, err := h.lookupUsecase.Execute(ctx.Request().Context(), req.Titles)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, metadata)
}

// Full-text topic search
// (GET /v1/search?q=)
func (h *Handler) SearchTopics(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if strings.TrimSpace(query) == "" {
		return ctx.JSON(http.StatusOK, []domain.SearchHit{})
	}

	hits, err := h.searchUsecase.Execute(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, hits)
}

// List bookmarked titles
// (GET /v1/bookmarks)
func (h *Handler) ListBookmarks(ctx echo.Context) error {
	if h.mirror == nil {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": "graph store not configured"})
	}
	titles, err := h.mirror.Bookmarks(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if titles == nil {
		titles = []string{}
	}
	return ctx.JSON(http.StatusOK, titles)
}

type bookmarkRequest struct {
	Bookmarked bool `json:"bookmarked"`
}

// Set or clear a bookmark
// (PUT /v1/bookmarks/:title)
func (h *Handler) SetBookmark(ctx echo.Context) error {
	if h.mirror == nil {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": "graph store not configured"})
	}
	title := ctx.Param("title")
	if strings.TrimSpace(title) == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "missing title"})
	}

	var req bookmarkRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := h.mirror.SetBookmark(ctx.Request().Context(), title, req.Bookmarked); err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"bookmarked": req.Bookmarked})
}

// Stream bookmark changes for a title as server-sent events
// (GET /v1/bookmarks/:title/events)
func (h *Handler) WatchBookmark(ctx echo.Context) error {
	if h.mirror == nil {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": "graph store not configured"})
	}
	title := ctx.Param("title")
	if strings.TrimSpace(title) == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "missing title"})
	}

	reqCtx := ctx.Request().Context()
	events, cancel, err := h.mirror.WatchBookmark(reqCtx, title)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer cancel()

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case value, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(resp, "event: bookmark\ndata: %s\n\n", value); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
