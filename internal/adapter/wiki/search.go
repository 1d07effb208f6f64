package wiki

import (
	"context"
	"sort"

	"prereq-orchestrator/internal/domain"
)

// Search runs a full-text search through the generator=search protocol,
// enriching each hit with its intro extract and thumbnail. Unlike
// topic-info fetches, partial search results are not usable: anything
// but a complete batch degrades to a failure.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchHit, domain.Status) {
	params := Params{
		"action":          "query",
		"format":          "json",
		"formatversion":   "2",
		"prop":            "extracts|pageimages",
		"pithumbsize":     "300",
		"generator":       "search",
		"exintro":         "1",
		"explaintext":     "1",
		"exsectionformat": "plain",
		"gsrsearch":       query,
		"gsrinfo":         "totalhits|suggestion|rewrittenquery",
		"gsrprop":         "size|timestamp|snippet|wordcount",
	}

	resp, status := c.FetchPaginated(ctx, params, 0)
	if status != domain.StatusOkay {
		return nil, status
	}

	pages := resp.Query.Pages
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	hits := make([]domain.SearchHit, 0, len(pages))
	for _, page := range pages {
		hit := domain.SearchHit{
			PageID:      page.PageID,
			Title:       page.Title,
			Wordcount:   page.Wordcount,
			Description: page.Extract,
		}
		if page.Thumbnail != nil {
			hit.Image = page.Thumbnail.Source
		}
		hits = append(hits, hit)
	}
	return hits, domain.StatusOkay
}
