package feed

import (
	"context"
	"errors"
	"strings"
)

// Validator decides whether a URL points at a usable podcast feed. All
// failures, including panics in the dependencies below it, surface as an
// invalid result with a human-readable reason; Run never returns an error.
type Validator struct {
	parser *Parser
}

func NewValidator(parser *Parser) *Validator {
	return &Validator{parser: parser}
}

func (v *Validator) Run(ctx context.Context, rawURL string) ValidationResult {
	feedURL := NormalizeURL(rawURL)
	if feedURL == "" {
		return ValidationResult{Message: "URL is empty"}
	}

	result, err := v.parser.Parse(ctx, feedURL)
	if err != nil {
		return ValidationResult{Message: validationMessage(err)}
	}

	if strings.TrimSpace(result.Podcast.Title) == "" || result.TitleDefaulted {
		return ValidationResult{Message: "Feed has no title"}
	}
	if len(result.Episodes) == 0 {
		return ValidationResult{Message: "Feed has no episodes with a playable audio source; this does not look like a podcast"}
	}

	return ValidationResult{
		IsValid:  true,
		Message:  "Feed looks like a valid podcast",
		Metadata: buildValidationMetadata(result.Podcast),
	}
}

func validationMessage(err error) string {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		if fetchErr.Timeout {
			return "Feed took too long to respond"
		}
		return "Feed is unreachable: " + err.Error()
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return "Document is not a valid RSS/Atom feed: " + err.Error()
	}

	return err.Error()
}

func buildValidationMetadata(podcast Podcast) *ValidationMetadata {
	// Flatten categories: each main category followed by its sub-categories
	var categories []string
	for _, c := range podcast.Categories {
		categories = append(categories, c.Main)
		categories = append(categories, c.Sub...)
	}

	return &ValidationMetadata{
		Title:       podcast.Title,
		Description: podcast.Description,
		Author:      podcast.Publisher,
		ImageURL:    podcast.Artwork,
		WebsiteURL:  podcast.Website,
		Language:    podcast.Language,
		Explicit:    podcast.Explicit,
		Categories:  categories,
	}
}

// NormalizeURL trims whitespace, guarantees a scheme and strips trailing
// slashes so equivalent spellings of a feed URL compare equal.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	return strings.TrimRight(s, "/")
}
