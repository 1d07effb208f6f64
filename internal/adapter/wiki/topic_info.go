package wiki

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"prereq-orchestrator/internal/domain"
)

// GetTopicInfo fetches the requested property categories for every
// title. The title list is partitioned into batches of at most the
// API's titles-per-request limit and the batches are fetched
// concurrently, each running the full pagination protocol with its own
// continuation budget. A failed batch contributes nothing and never
// aborts its siblings.
func (c *Client) GetTopicInfo(ctx context.Context, titles []string, props []domain.Property, extra map[string]string, maxContinue int) domain.TopicsMetadata {
	if len(titles) == 0 {
		return domain.TopicsMetadata{}
	}

	var batches [][]string
	for start := 0; start < len(titles); start += c.batchSize {
		end := start + c.batchSize
		if end > len(titles) {
			end = len(titles)
		}
		batches = append(batches, titles[start:end])
	}

	results := make([]domain.TopicsMetadata, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			results[i] = c.topicInfoBatch(gctx, batch, props, extra, maxContinue)
			return nil // batch failures are local
		})
	}
	_ = g.Wait()

	// Batches partition disjoint title sets, so the merge is a plain
	// key-disjoint union regardless of completion order.
	merged := make(domain.TopicsMetadata, len(titles))
	for _, result := range results {
		for title, meta := range result {
			merged[title] = meta
		}
	}
	return merged
}

func (c *Client) topicInfoBatch(ctx context.Context, titles []string, props []domain.Property, extra map[string]string, maxContinue int) domain.TopicsMetadata {
	propNames := make([]string, len(props))
	for i, p := range props {
		propNames[i] = string(p)
	}

	params := Params{
		"action":        "query",
		"format":        "json",
		"formatversion": "2",
		"prop":          strings.Join(propNames, "|"),
		"titles":        strings.Join(titles, "|"),
		"plnamespace":   "0",
	}
	if hasProperty(props, domain.PropertyImage) {
		params["pithumbsize"] = "600"
	}
	if hasProperty(props, domain.PropertyDescription) {
		params["exintro"] = "1"
		params["explaintext"] = "1"
		params["exsectionformat"] = "plain"
	}
	for k, v := range extra {
		params[k] = v
	}

	resp, status := c.FetchPaginated(ctx, params, maxContinue)
	if !status.Usable() {
		c.logger.Error("topic info fetch failed",
			slog.String("status", status.String()),
			slog.Int("titles", len(titles)))
		return domain.TopicsMetadata{}
	}

	metadata := make(domain.TopicsMetadata, len(resp.Query.Pages))
	for _, page := range resp.Query.Pages {
		meta := domain.TopicMetadata{}
		if hasProperty(props, domain.PropertyLinks) {
			meta.Links = linkTitles(page.Links)
		}
		if hasProperty(props, domain.PropertyDescription) {
			meta.Description = page.Extract
		}
		if hasProperty(props, domain.PropertyImage) {
			if page.Thumbnail != nil {
				meta.Image = page.Thumbnail.Source
			}
		}
		if hasProperty(props, domain.PropertyPageviews) {
			meta.Pageviews = sumPageviews(page.Pageviews)
		}
		metadata[page.Title] = meta
	}
	return metadata
}

func hasProperty(props []domain.Property, want domain.Property) bool {
	for _, p := range props {
		if p == want {
			return true
		}
	}
	return false
}

func linkTitles(links []Link) []string {
	if len(links) == 0 {
		return nil
	}
	titles := make([]string, 0, len(links))
	for _, l := range links {
		titles = append(titles, l.Title)
	}
	return titles
}

func sumPageviews(views map[string]*int) int {
	total := 0
	for _, v := range views {
		if v != nil {
			total += *v
		}
	}
	return total
}

var _ domain.TopicSource = (*Client)(nil)
