package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/text/language"
)

const (
	// PlaceholderArtwork is served when a feed publishes no artwork at all.
	PlaceholderArtwork = "/images/podcast-placeholder.png"

	defaultTitle     = "Unknown Podcast"
	defaultPublisher = "Unknown Publisher"
	defaultLanguage  = "en"
)

// Parser turns a feed URL into the canonical Podcast + Episode model,
// reading the iTunes, podcast and media namespace extensions alongside base
// RSS/Atom. All per-field fallbacks degrade to defaults; only a fetch or
// document-level parse failure aborts the operation.
type Parser struct {
	fetcher      *Fetcher
	gofeedParser *gofeed.Parser
	recentWindow time.Duration
	now          func() time.Time
}

func NewParser(fetcher *Fetcher, recentWindow time.Duration) *Parser {
	if recentWindow <= 0 {
		recentWindow = 7 * 24 * time.Hour
	}
	return &Parser{
		fetcher:      fetcher,
		gofeedParser: gofeed.NewParser(),
		recentWindow: recentWindow,
		now:          time.Now,
	}
}

// Parse fetches and normalizes the feed at feedURL. It returns a *FetchError
// when the document cannot be retrieved and a *ParseError when it is not
// well-formed; no partial result accompanies either.
func (p *Parser) Parse(ctx context.Context, feedURL string) (*Result, error) {
	data, err := p.fetcher.Run(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(data, feedURL)
}

// ParseBytes normalizes an already-fetched feed document.
func (p *Parser) ParseBytes(data []byte, feedURL string) (*Result, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{URL: feedURL, Err: err}
	}

	podcast, titleDefaulted := p.buildPodcast(parsed, feedURL)

	episodes := make([]Episode, 0, len(parsed.Items))
	dropped := 0
	for i, item := range parsed.Items {
		if item == nil {
			dropped++
			continue
		}
		episode := p.buildEpisode(item, i, podcast)
		if episode.AudioURL == "" {
			dropped++
			continue
		}
		episodes = append(episodes, episode)
	}
	podcast.EpisodeCount = len(episodes)

	if dropped > 0 {
		slog.Debug("Dropped items without a playable audio source",
			"feed", feedURL, "dropped", dropped, "kept", len(episodes))
	}

	return &Result{Podcast: podcast, Episodes: episodes, TitleDefaulted: titleDefaulted}, nil
}

func (p *Parser) buildPodcast(parsed *gofeed.Feed, feedURL string) (Podcast, bool) {
	podcast := Podcast{
		ID:         uuid.NewString(),
		Website:    parsed.Link,
		Language:   normalizeLanguage(parsed.Language),
		Categories: ResolveCategories(parsed),
		FeedURL:    feedURL,
	}

	description := parsed.Description
	var itunesImage string
	if parsed.ITunesExt != nil {
		description = cmp.Or(parsed.Description, parsed.ITunesExt.Summary)
		itunesImage = parsed.ITunesExt.Image
		podcast.Explicit = ExplicitFlag(parsed.ITunesExt.Explicit)
	}
	podcast.Description = SanitizeHTML(description)

	title := cmp.Or(parsed.Title, titleFromDescription(podcast.Description))
	titleDefaulted := title == ""
	if titleDefaulted {
		title = defaultTitle
	}
	podcast.Title = title
	podcast.Publisher = p.resolvePublisher(parsed)
	podcast.Artwork = ResolveImageURL(itunesImage, ImageURL(parsed.Image), PlaceholderArtwork)

	switch {
	case parsed.UpdatedParsed != nil:
		podcast.LastUpdated = *parsed.UpdatedParsed
	case parsed.PublishedParsed != nil:
		podcast.LastUpdated = *parsed.PublishedParsed
	default:
		podcast.LastUpdated = p.now()
	}

	return podcast, titleDefaulted
}

func (p *Parser) resolvePublisher(parsed *gofeed.Feed) string {
	var candidates []string
	if parsed.ITunesExt != nil {
		candidates = append(candidates, parsed.ITunesExt.Author)
		if parsed.ITunesExt.Owner != nil {
			candidates = append(candidates, parsed.ITunesExt.Owner.Name)
		}
	}
	if parsed.DublinCoreExt != nil && len(parsed.DublinCoreExt.Creator) > 0 {
		candidates = append(candidates, parsed.DublinCoreExt.Creator[0])
	}
	if parsed.Author != nil {
		candidates = append(candidates, parsed.Author.Name)
	}

	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return defaultPublisher
}

func (p *Parser) buildEpisode(item *gofeed.Item, index int, podcast Podcast) Episode {
	episode := Episode{
		ID:           uuid.NewString(),
		GUID:         cmp.Or(item.GUID, fmt.Sprintf("%s-episode-%d", podcast.FeedURL, index)),
		Title:        cmp.Or(item.Title, fmt.Sprintf("Episode %d", index+1)),
		PodcastTitle: podcast.Title,
		PodcastID:    podcast.ID,
		AudioURL:     ResolveAudioURL(item),
		Type:         EpisodeTypeFull,
	}

	description := cmp.Or(item.Content, item.Description)
	var itunesImage, itunesDuration string
	if item.ITunesExt != nil {
		description = cmp.Or(item.ITunesExt.Summary, item.Content, item.Description)
		itunesImage = item.ITunesExt.Image
		itunesDuration = item.ITunesExt.Duration
		episode.Season = OptionalInt(item.ITunesExt.Season)
		episode.EpisodeNumber = OptionalInt(item.ITunesExt.Episode)
		episode.Type = mapEpisodeType(item.ITunesExt.EpisodeType)
		episode.Explicit = ExplicitFlag(item.ITunesExt.Explicit)
	}
	episode.Description = SanitizeHTML(description)

	switch {
	case item.PublishedParsed != nil:
		episode.PublishedAt = item.PublishedParsed
	case item.UpdatedParsed != nil:
		episode.PublishedAt = item.UpdatedParsed
	}
	episode.IsNew = episode.PublishedAt != nil && p.now().Sub(*episode.PublishedAt) < p.recentWindow

	episode.DurationSeconds = ParseDurationSeconds(itunesDuration)
	episode.Duration = FormatDuration(episode.DurationSeconds)
	episode.Artwork = ResolveImageURL(itunesImage, ImageURL(item.Image), podcast.Artwork)
	episode.ChaptersURL = PodcastExtensionURL(item, "chapters")
	episode.TranscriptURL = PodcastExtensionURL(item, "transcript")

	return episode
}

func mapEpisodeType(raw string) EpisodeType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trailer":
		return EpisodeTypeTrailer
	case "bonus":
		return EpisodeTypeBonus
	default:
		return EpisodeTypeFull
	}
}

func normalizeLanguage(raw string) string {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return defaultLanguage
	}
	return tag.String()
}

// titleFromDescription derives a stand-in title from the first words of the
// description when the feed has none.
func titleFromDescription(description string) string {
	words := strings.Fields(description)
	if len(words) == 0 {
		return ""
	}
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}
