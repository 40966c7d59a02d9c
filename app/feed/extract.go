package feed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

var audioExtensionRe = regexp.MustCompile(`(?i)\.(mp3|m4a|wav|ogg)(\?.*)?$`)

// DefaultCategory is used when a feed publishes no recognizable categories.
var DefaultCategory = Category{Main: "Podcasts", Sub: []string{}}

// ResolveAudioURL finds the playable audio source for an item, trying in
// order: an audio-typed enclosure, an audio-typed media:content entry, any
// enclosure regardless of declared type (many feeds mislabel it), and
// finally the item link when it ends in a known audio extension. Returns ""
// when nothing matches; the caller drops the episode.
func ResolveAudioURL(item *gofeed.Item) string {
	if item == nil {
		return ""
	}

	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "audio/") {
			return enc.URL
		}
	}

	for _, media := range mediaContents(item) {
		url := media.Attrs["url"]
		if url != "" && strings.HasPrefix(media.Attrs["type"], "audio/") {
			return url
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}

	if audioExtensionRe.MatchString(item.Link) {
		return item.Link
	}

	return ""
}

// ResolveImageURL returns the first non-empty candidate URL.
func ResolveImageURL(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

// ImageURL unwraps a gofeed image reference to its URL, tolerating nil.
func ImageURL(img *gofeed.Image) string {
	if img == nil {
		return ""
	}
	return img.URL
}

// ResolveCategories normalizes channel categories: the nested iTunes
// category tree when present, else the feed's flat category list, else a
// single "Podcasts" default. Never returns an empty slice.
func ResolveCategories(feed *gofeed.Feed) []Category {
	if feed == nil {
		return []Category{DefaultCategory}
	}

	if feed.ITunesExt != nil && len(feed.ITunesExt.Categories) > 0 {
		categories := make([]Category, 0, len(feed.ITunesExt.Categories))
		for _, c := range feed.ITunesExt.Categories {
			if c == nil || c.Text == "" {
				continue
			}
			category := Category{Main: c.Text, Sub: []string{}}
			if c.Subcategory != nil && c.Subcategory.Text != "" {
				category.Sub = append(category.Sub, c.Subcategory.Text)
			}
			categories = append(categories, category)
		}
		if len(categories) > 0 {
			return categories
		}
	}

	if len(feed.Categories) > 0 {
		categories := make([]Category, 0, len(feed.Categories))
		for _, c := range feed.Categories {
			if strings.TrimSpace(c) == "" {
				continue
			}
			categories = append(categories, Category{Main: c, Sub: []string{}})
		}
		if len(categories) > 0 {
			return categories
		}
	}

	return []Category{DefaultCategory}
}

// OptionalInt parses a numeric field, keeping "not provided" distinct from
// an explicit zero (season/episode numbering relies on that).
func OptionalInt(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ExplicitFlag reports whether an iTunes explicit value marks the content
// explicit. Only the exact literals "yes" and "true" count; anything else,
// including casing variants, is treated as not explicit.
func ExplicitFlag(raw string) bool {
	return raw == "yes" || raw == "true"
}

// PodcastExtensionURL reads a url attribute from the podcast namespace
// (chapters, transcript).
func PodcastExtensionURL(item *gofeed.Item, element string) string {
	if item == nil || item.Extensions == nil {
		return ""
	}
	for _, e := range item.Extensions["podcast"][element] {
		if url := e.Attrs["url"]; url != "" {
			return url
		}
	}
	return ""
}

func mediaContents(item *gofeed.Item) []ext.Extension {
	if item.Extensions == nil {
		return nil
	}
	return item.Extensions["media"]["content"]
}
