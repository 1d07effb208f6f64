package domain

import "context"

// Property names a metadata category that can be requested from the
// topic source. Values are the upstream prop identifiers.
type Property string

const (
	PropertyLinks       Property = "links"
	PropertyDescription Property = "extracts"
	PropertyPageviews   Property = "pageviews"
	PropertyImage       Property = "pageimages"
)

// TopicSource fetches topic metadata from the external encyclopedia
// API. Implementations degrade to empty results on upstream failure
// rather than returning errors; failure is logged at the adapter.
type TopicSource interface {
	// GetTopicInfo fetches the requested property categories for every
	// title, batching and paginating as needed. Empty titles short
	// circuits to an empty map without any network call.
	GetTopicInfo(ctx context.Context, titles []string, props []Property, extra map[string]string, maxContinue int) TopicsMetadata

	// Search runs a full-text search for topics matching the query.
	Search(ctx context.Context, query string) ([]SearchHit, Status)
}
