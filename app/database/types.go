package database

import (
	"time"
)

// Feed is a subscribed podcast feed as stored. ID is the durable
// storage-assigned identifier; parse-time IDs are never written here.
type Feed struct {
	ID            string     `json:"id"`
	FeedURL       string     `json:"feedUrl"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Publisher     string     `json:"publisher"`
	Artwork       string     `json:"artwork"`
	Website       string     `json:"website"`
	Language      string     `json:"language"`
	Explicit      bool       `json:"explicit"`
	LastCheckedAt *time.Time `json:"lastCheckedAt"`
	NextRefreshAt *time.Time `json:"nextRefreshAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// FeedMetadata is the set of feed fields refreshed after a successful parse.
type FeedMetadata struct {
	Title         string
	Description   string
	Publisher     string
	Artwork       string
	Website       string
	Language      string
	Explicit      bool
	LastCheckedAt time.Time
	NextRefreshAt time.Time
}
