package feed

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

const podcastRSSHeader = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
     xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"
     xmlns:podcast="https://podcastindex.org/namespace/1.0"
     xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Go Time</title>
    <link>https://example.com/gotime</link>
    <description>&lt;p&gt;A show about &lt;b&gt;Go&lt;/b&gt;&lt;/p&gt;</description>
    <language>en-us</language>
    <lastBuildDate>Mon, 03 Jul 2023 12:00:00 GMT</lastBuildDate>
    <itunes:author>Changelog Media</itunes:author>
    <itunes:explicit>no</itunes:explicit>
    <itunes:image href="https://example.com/cover.jpg"/>
    <itunes:category text="Technology">
      <itunes:category text="Software How-To"/>
    </itunes:category>`

func testParser() *Parser {
	return NewParser(NewFetcher(nil, "podsift-test/1.0", time.Second, nil), 7*24*time.Hour)
}

func TestParseBytesPodcastMetadata(t *testing.T) {
	doc := podcastRSSHeader + `
    <item>
      <title>Episode One</title>
      <guid>ep-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <enclosure url="https://example.com/ep1.mp3" type="audio/mpeg" length="1024"/>
    </item>
  </channel>
</rss>`

	result, err := testParser().ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	podcast := result.Podcast
	if podcast.Title != "Go Time" {
		t.Errorf("Expected title 'Go Time', got: %q", podcast.Title)
	}
	if podcast.Publisher != "Changelog Media" {
		t.Errorf("Expected publisher 'Changelog Media', got: %q", podcast.Publisher)
	}
	if podcast.Description != "A show about Go" {
		t.Errorf("Expected sanitized description, got: %q", podcast.Description)
	}
	if podcast.Artwork != "https://example.com/cover.jpg" {
		t.Errorf("Expected iTunes artwork, got: %q", podcast.Artwork)
	}
	if podcast.Website != "https://example.com/gotime" {
		t.Errorf("Expected website link, got: %q", podcast.Website)
	}
	if podcast.Explicit {
		t.Error("Expected explicit=false for 'no'")
	}
	if podcast.FeedURL != "https://example.com/feed.xml" {
		t.Errorf("Expected feed URL to be kept, got: %q", podcast.FeedURL)
	}
	if podcast.ID == "" {
		t.Error("Expected a generated podcast ID")
	}
	if len(podcast.Categories) != 1 || podcast.Categories[0].Main != "Technology" {
		t.Fatalf("Expected Technology category, got: %+v", podcast.Categories)
	}
	if len(podcast.Categories[0].Sub) != 1 || podcast.Categories[0].Sub[0] != "Software How-To" {
		t.Errorf("Expected Software How-To subcategory, got: %+v", podcast.Categories[0].Sub)
	}
	if podcast.EpisodeCount != 1 {
		t.Errorf("Expected episode count 1, got: %d", podcast.EpisodeCount)
	}
	if result.TitleDefaulted {
		t.Error("Expected TitleDefaulted=false for a titled feed")
	}
}

func TestParseBytesEpisodeFields(t *testing.T) {
	doc := podcastRSSHeader + `
    <item>
      <title>Deep Dive</title>
      <guid>ep-42</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <itunes:summary>&lt;p&gt;All about &lt;i&gt;parsing&lt;/i&gt;&lt;/p&gt;</itunes:summary>
      <itunes:duration>1:02:03</itunes:duration>
      <itunes:season>2</itunes:season>
      <itunes:episode>42</itunes:episode>
      <itunes:episodeType>bonus</itunes:episodeType>
      <itunes:explicit>yes</itunes:explicit>
      <itunes:image href="https://example.com/ep42.jpg"/>
      <podcast:chapters url="https://example.com/ep42-chapters.json" type="application/json+chapters"/>
      <podcast:transcript url="https://example.com/ep42.srt" type="application/srt"/>
      <enclosure url="https://example.com/ep42.mp3" type="audio/mpeg" length="2048"/>
    </item>
  </channel>
</rss>`

	result, err := testParser().ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Episodes) != 1 {
		t.Fatalf("Expected 1 episode, got: %d", len(result.Episodes))
	}

	ep := result.Episodes[0]
	if ep.GUID != "ep-42" {
		t.Errorf("Expected GUID 'ep-42', got: %q", ep.GUID)
	}
	if ep.Description != "All about parsing" {
		t.Errorf("Expected sanitized iTunes summary, got: %q", ep.Description)
	}
	if ep.DurationSeconds != 3723 {
		t.Errorf("Expected 3723 duration seconds, got: %d", ep.DurationSeconds)
	}
	if ep.Duration != "1:02:03" {
		t.Errorf("Expected formatted duration '1:02:03', got: %q", ep.Duration)
	}
	if ep.Season == nil || *ep.Season != 2 {
		t.Errorf("Expected season 2, got: %v", ep.Season)
	}
	if ep.EpisodeNumber == nil || *ep.EpisodeNumber != 42 {
		t.Errorf("Expected episode number 42, got: %v", ep.EpisodeNumber)
	}
	if ep.Type != EpisodeTypeBonus {
		t.Errorf("Expected bonus episode type, got: %q", ep.Type)
	}
	if !ep.Explicit {
		t.Error("Expected explicit=true for 'yes'")
	}
	if ep.Artwork != "https://example.com/ep42.jpg" {
		t.Errorf("Expected item-level artwork, got: %q", ep.Artwork)
	}
	if ep.ChaptersURL != "https://example.com/ep42-chapters.json" {
		t.Errorf("Expected chapters URL, got: %q", ep.ChaptersURL)
	}
	if ep.TranscriptURL != "https://example.com/ep42.srt" {
		t.Errorf("Expected transcript URL, got: %q", ep.TranscriptURL)
	}
	if ep.AudioURL != "https://example.com/ep42.mp3" {
		t.Errorf("Expected enclosure audio URL, got: %q", ep.AudioURL)
	}
	if ep.PublishedAt == nil {
		t.Fatal("Expected a parsed publish date")
	}
	if ep.PodcastTitle != "Go Time" {
		t.Errorf("Expected podcast title back-reference, got: %q", ep.PodcastTitle)
	}
	if ep.Bookmarked || ep.Progress != 0 {
		t.Error("Expected bookmark/progress to be zero-initialized at parse time")
	}
}

func TestParseBytesFiltersItemsWithoutAudio(t *testing.T) {
	var items strings.Builder
	for i := 0; i < 10; i++ {
		if i == 3 || i == 7 {
			// no enclosure and a non-audio link
			fmt.Fprintf(&items, `
    <item>
      <title>Item %d</title>
      <guid>item-%d</guid>
      <link>https://example.com/posts/%d</link>
    </item>`, i, i, i)
			continue
		}
		fmt.Fprintf(&items, `
    <item>
      <title>Item %d</title>
      <guid>item-%d</guid>
      <enclosure url="https://example.com/item-%d.mp3" type="audio/mpeg"/>
    </item>`, i, i, i)
	}

	doc := podcastRSSHeader + items.String() + `
  </channel>
</rss>`

	result, err := testParser().ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Episodes) != 8 {
		t.Fatalf("Expected 8 episodes after filtering, got: %d", len(result.Episodes))
	}
	for _, ep := range result.Episodes {
		if ep.AudioURL == "" {
			t.Errorf("Episode %q has empty audio URL in output", ep.GUID)
		}
	}
}

func TestParseBytesGUIDAndTitleFallbacks(t *testing.T) {
	doc := podcastRSSHeader + `
    <item>
      <enclosure url="https://example.com/untitled.mp3" type="audio/mpeg"/>
    </item>
  </channel>
</rss>`

	result, err := testParser().ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Episodes) != 1 {
		t.Fatalf("Expected 1 episode, got: %d", len(result.Episodes))
	}

	ep := result.Episodes[0]
	expectedGUID := "https://example.com/feed.xml-episode-0"
	if ep.GUID != expectedGUID {
		t.Errorf("Expected synthesized GUID %q, got: %q", expectedGUID, ep.GUID)
	}
	if ep.Title != "Episode 1" {
		t.Errorf("Expected fallback title 'Episode 1', got: %q", ep.Title)
	}
	if ep.Artwork != result.Podcast.Artwork {
		t.Errorf("Expected artwork fallback to podcast artwork, got: %q", ep.Artwork)
	}
	if ep.Type != EpisodeTypeFull {
		t.Errorf("Expected default full episode type, got: %q", ep.Type)
	}
}

func TestParseBytesSynthesizedGUIDStableAcrossParses(t *testing.T) {
	doc := podcastRSSHeader + `
    <item>
      <title>No GUID Here</title>
      <enclosure url="https://example.com/no-guid.mp3" type="audio/mpeg"/>
    </item>
  </channel>
</rss>`

	parser := testParser()
	first, err := parser.ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := parser.ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(first.Episodes) != 1 || len(second.Episodes) != 1 {
		t.Fatalf("Expected 1 episode per parse, got: %d and %d", len(first.Episodes), len(second.Episodes))
	}
	if first.Episodes[0].GUID != second.Episodes[0].GUID {
		t.Errorf("Expected synthesized GUID to be stable across parses, got: %q vs %q",
			first.Episodes[0].GUID, second.Episodes[0].GUID)
	}
	if first.Podcast.ID == second.Podcast.ID {
		t.Error("Expected podcast IDs to stay ephemeral per parse")
	}
}

func TestParseBytesTitleDefaulted(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <item>
      <title>Ep</title>
      <guid>g</guid>
      <enclosure url="https://example.com/ep.mp3" type="audio/mpeg"/>
    </item>
  </channel>
</rss>`

	result, err := testParser().ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.TitleDefaulted {
		t.Error("Expected TitleDefaulted for a feed without a title")
	}
	if result.Podcast.Title != "Unknown Podcast" {
		t.Errorf("Expected default title, got: %q", result.Podcast.Title)
	}
}

func TestParseBytesIsNewWindow(t *testing.T) {
	recent := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC1123Z)
	old := time.Now().UTC().Add(-30 * 24 * time.Hour).Format(time.RFC1123Z)

	doc := podcastRSSHeader + `
    <item>
      <title>Fresh</title>
      <guid>fresh</guid>
      <pubDate>` + recent + `</pubDate>
      <enclosure url="https://example.com/fresh.mp3" type="audio/mpeg"/>
    </item>
    <item>
      <title>Stale</title>
      <guid>stale</guid>
      <pubDate>` + old + `</pubDate>
      <enclosure url="https://example.com/stale.mp3" type="audio/mpeg"/>
    </item>
  </channel>
</rss>`

	result, err := testParser().ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Episodes) != 2 {
		t.Fatalf("Expected 2 episodes, got: %d", len(result.Episodes))
	}
	if !result.Episodes[0].IsNew {
		t.Error("Expected episode published yesterday to be new")
	}
	if result.Episodes[1].IsNew {
		t.Error("Expected episode published a month ago to not be new")
	}
}

func TestParseBytesMalformedDocument(t *testing.T) {
	_, err := testParser().ParseBytes([]byte("this is not xml at all"), "https://example.com/feed.xml")
	if err == nil {
		t.Fatal("Expected a parse error for a non-XML document")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Expected *ParseError, got: %T (%v)", err, err)
	}
}

func TestParseBytesLanguageDefault(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>No Language</title>
    <item>
      <title>Ep</title>
      <guid>g</guid>
      <enclosure url="https://example.com/ep.mp3" type="audio/mpeg"/>
    </item>
  </channel>
</rss>`

	result, err := testParser().ParseBytes([]byte(doc), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Podcast.Language != "en" {
		t.Errorf("Expected default language 'en', got: %q", result.Podcast.Language)
	}
	if result.Podcast.Artwork != PlaceholderArtwork {
		t.Errorf("Expected placeholder artwork, got: %q", result.Podcast.Artwork)
	}
	if result.Podcast.Publisher != "Unknown Publisher" {
		t.Errorf("Expected publisher fallback, got: %q", result.Podcast.Publisher)
	}
}
