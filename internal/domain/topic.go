package domain

// TopicMetadata holds the per-title fields extracted from the
// encyclopedia API. Fields are populated only for the property
// categories that were requested.
type TopicMetadata struct {
	Links       []string `json:"links,omitempty"`
	Pageviews   int      `json:"pageviews,omitempty"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// TopicsMetadata maps a topic title (case-sensitive, as supplied by the
// upstream source) to its metadata. A present key always carries a
// record, possibly zero-valued.
type TopicsMetadata map[string]TopicMetadata

// Topic is the assembled result of one prerequisite resolution.
// Immutable after construction; not persisted by the core.
type Topic struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Prereqs     TopicsMetadata `json:"prereqs"`
}

// SearchHit is one result of a full-text topic search.
type SearchHit struct {
	PageID      int    `json:"id"`
	Title       string `json:"title"`
	Wordcount   int    `json:"wordcount"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}
