package domain

// SourceType tells whether a post was published by a community or a person.
type SourceType string

const (
	SourceTypeGroup SourceType = "group"
	SourceTypeUser  SourceType = "user"
)

// Post is the canonical persisted record of a collected VK post.
// PostID is the composite "{owner_id}_{post_id}" and never changes;
// metric and video fields are rewritten on every refresh.
type Post struct {
	PostID         string
	SourceType     SourceType
	OwnerID        int64
	OwnerName      string
	PostURL        string
	Text           string
	DatePublished  int64
	PostViews      int
	Likes          int
	Comments       int
	Reposts        int
	HasVideo       bool
	VideoViews     int
	VideoDuration  int
	VideoTitle     string
	FirstCollected int64
	LastUpdated    int64
	Hashtag        string
}

// Metrics holds the mutable engagement counters of a post.
type Metrics struct {
	PostViews int
	Likes     int
	Comments  int
	Reposts   int
}

// VideoInfo describes the first video attachment of a post, if any.
// The zero value means "no video".
type VideoInfo struct {
	HasVideo      bool
	VideoViews    int
	VideoDuration int
	VideoTitle    string
}

// MetricsUpdate is the partial update applied by the refresh workflow.
// It deliberately carries no identity or text fields: first_collected,
// text and the rest of the record stay untouched.
type MetricsUpdate struct {
	Metrics
	VideoInfo
	LastUpdated int64
}
