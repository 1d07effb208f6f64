package usecase

import (
	"sort"

	"prereq-orchestrator/internal/domain"
)

// FilterCandidates removes titles failing the popularity/quality
// predicate, ranks survivors by pageviews descending, and truncates to
// maxCandidates. Pure and deterministic: titles gives the input order,
// which breaks pageview ties.
func FilterCandidates(titles []string, metadata domain.TopicsMetadata, viewMinimum, maxCandidates int) []string {
	seen := make(map[string]struct{}, len(titles))
	kept := make([]string, 0, len(titles))
	for _, title := range titles {
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}

		meta, ok := metadata[title]
		if !ok {
			continue
		}
		if meta.Pageviews == 0 || meta.Pageviews <= viewMinimum {
			continue
		}
		if meta.Description == "" {
			continue
		}
		kept = append(kept, title)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return metadata[kept[i]].Pageviews > metadata[kept[j]].Pageviews
	})

	if len(kept) > maxCandidates {
		kept = kept[:maxCandidates]
	}
	return kept
}
