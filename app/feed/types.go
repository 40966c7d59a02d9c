package feed

import (
	"time"
)

// EpisodeType classifies an episode per the iTunes episodeType extension.
type EpisodeType string

const (
	EpisodeTypeFull    EpisodeType = "full"
	EpisodeTypeTrailer EpisodeType = "trailer"
	EpisodeTypeBonus   EpisodeType = "bonus"
)

// Category is one podcast category with its sub-categories, ordered as
// published in the feed.
type Category struct {
	Main string   `json:"main"`
	Sub  []string `json:"sub"`
}

// Podcast is the canonical channel-level record derived from one parse of a
// feed document. ID is regenerated on every parse and must never be persisted
// as a key; FeedURL is the natural key a subscription hangs off.
type Podcast struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Publisher    string     `json:"publisher"`
	Artwork      string     `json:"artwork"`
	Description  string     `json:"description"`
	Website      string     `json:"website"`
	Language     string     `json:"language"`
	Explicit     bool       `json:"explicit"`
	Categories   []Category `json:"categories"`
	EpisodeCount int        `json:"episodeCount"`
	LastUpdated  time.Time  `json:"lastUpdated"`
	FeedURL      string     `json:"feedUrl"`
}

// Episode is the canonical item-level record. Like Podcast.ID, the ID is
// ephemeral; durable identity is (feed, GUID). AudioURL is always non-empty:
// items without a resolvable audio source are dropped during parsing.
type Episode struct {
	ID              string      `json:"id"`
	GUID            string      `json:"guid"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	PublishedAt     *time.Time  `json:"publishedAt"`
	Duration        string      `json:"duration"`
	DurationSeconds int         `json:"durationSeconds"`
	PodcastTitle    string      `json:"podcastTitle"`
	PodcastID       string      `json:"podcastId"`
	Artwork         string      `json:"artwork"`
	AudioURL        string      `json:"audioUrl"`
	IsNew           bool        `json:"isNew"`
	Bookmarked      bool        `json:"isBookmarked"`
	Progress        int         `json:"progress"`
	ChaptersURL     string      `json:"chaptersUrl,omitempty"`
	TranscriptURL   string      `json:"transcriptUrl,omitempty"`
	Season          *int        `json:"season,omitempty"`
	EpisodeNumber   *int        `json:"episodeNumber,omitempty"`
	Type            EpisodeType `json:"type"`
	Explicit        bool        `json:"explicit"`
}

// Result is the output of one successful feed parse. TitleDefaulted is set
// when the document carried no usable title and the podcast title fell back
// to the default, so callers can tell a defaulted title apart from a feed
// genuinely named that way.
type Result struct {
	Podcast        Podcast
	Episodes       []Episode
	TitleDefaulted bool
}

// IsRecent reports whether a publish date falls within the recency window
// behind the isNew flag. The flag is derived wherever episodes surface, never
// stored, so it ages out without writes.
func IsRecent(publishedAt *time.Time, window time.Duration) bool {
	return publishedAt != nil && time.Since(*publishedAt) < window
}

// ValidationMetadata carries the channel-level summary returned when a URL
// passes validation.
type ValidationMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	ImageURL    string   `json:"imageUrl"`
	WebsiteURL  string   `json:"websiteUrl"`
	Language    string   `json:"language"`
	Explicit    bool     `json:"explicit"`
	Categories  []string `json:"categories"`
}

// ValidationResult reports whether a URL points at a usable podcast feed.
// It is produced without side effects and never accompanied by an error.
type ValidationResult struct {
	IsValid  bool                `json:"isValid"`
	Message  string              `json:"message"`
	Metadata *ValidationMetadata `json:"metadata,omitempty"`
}
