package resolver

import (
	"fmt"
	"regexp"

	"github.com/lucas-albers-lz4/imgembed/pkg/log"
)

// Built-in platform names, in evaluation order.
const (
	PlatformImgurDirect  = "imgurDirect"
	PlatformImgur        = "imgur"
	PlatformDiscord      = "discord"
	PlatformDiscordMedia = "discordMedia"
	PlatformTwitter      = "twitter"
	PlatformInstagram    = "instagram"
	PlatformGiphy        = "giphy"
	PlatformReddit       = "reddit"
	PlatformRedditImage  = "redditImage"
	PlatformDirectImage  = "directImage"
)

// Table is an ordered rule list. Evaluation order is slice order and the
// first matching rule wins. Duplicate platform names are allowed.
type Table []Rule

// builtinRules is compiled once; DefaultTable hands out copies of the slice.
// Rules share their *regexp.Regexp values, which are safe for concurrent use.
var builtinRules = Table{
	// Must precede imgur: the generic rule would rewrite a direct .png to .jpg.
	PassthroughRule(PlatformImgurDirect,
		regexp.MustCompile(`(?i)i\.imgur\.com/(\w+)\.(jpg|png|gif|webp)`),
		"Imgur CDN file, already direct"),
	TemplateRule(PlatformImgur,
		regexp.MustCompile(`(?i)imgur\.com/(?:a/)?(\w+)`),
		"https://i.imgur.com/${1}.jpg",
		"Imgur page or album, rewritten to the CDN file"),
	PassthroughRule(PlatformDiscord,
		regexp.MustCompile(`(?i)cdn\.discordapp\.com/.+`),
		"Discord CDN attachment"),
	PassthroughRule(PlatformDiscordMedia,
		regexp.MustCompile(`(?i)media\.discordapp\.net/.+`),
		"Discord media proxy"),
	PassthroughRule(PlatformTwitter,
		regexp.MustCompile(`(?i)pbs\.twimg\.com/media/(\w+)`),
		"Twitter/X media CDN"),
	PassthroughRule(PlatformInstagram,
		regexp.MustCompile(`(?i)instagram\.com/p/(\w+)`),
		"Instagram post; no direct link without scraping"),
	TemplateRule(PlatformGiphy,
		regexp.MustCompile(`(?i)giphy\.com/gifs/(?:.*-)?(\w+)`),
		"https://media.giphy.com/media/${1}/giphy.gif",
		"Giphy gallery page, rewritten to the media CDN"),
	PassthroughRule(PlatformReddit,
		regexp.MustCompile(`(?i)preview\.redd\.it/(\w+\.\w+)`),
		"Reddit preview image"),
	PassthroughRule(PlatformRedditImage,
		regexp.MustCompile(`(?i)i\.redd\.it/(\w+\.\w+)`),
		"Reddit image host"),
	// Catch-all. Earlier CDN rules already claim most URLs ending in an image
	// extension, so this only fires for hosts not listed above.
	PassthroughRule(PlatformDirectImage,
		regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|bmp|svg)(\?.*)?$`),
		"Any URL ending in a known image extension"),
}

// DefaultTable returns a copy of the built-in rules.
func DefaultTable() Table {
	return builtinRules.Clone()
}

// Clone returns a shallow copy so callers can reorder or extend it safely.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Platforms lists the platform names in evaluation order.
func (t Table) Platforms() []string {
	names := make([]string, 0, len(t))
	for _, r := range t {
		names = append(names, r.Platform)
	}
	return names
}

// Validate checks that every rule has a platform name and a pattern.
func (t Table) Validate() error {
	seen := make(map[string]int, len(t))
	for i, r := range t {
		if r.Platform == "" {
			return fmt.Errorf("rule %d: %w", i, ErrEmptyPlatform)
		}
		if r.Pattern == nil {
			return fmt.Errorf("rule %d (%s): %w", i, r.Platform, ErrNilPattern)
		}
		if prev, dup := seen[r.Platform]; dup {
			log.Debug("Duplicate platform name in rule table", "platform", r.Platform, "first_index", prev, "index", i)
			continue
		}
		seen[r.Platform] = i
	}
	return nil
}

// With returns a new table containing t and extra. PlaceBefore puts extra
// ahead of t; any other placement appends it.
func (t Table) With(extra []Rule, placement Placement) Table {
	out := make(Table, 0, len(t)+len(extra))
	if placement == PlaceBefore {
		out = append(out, extra...)
		return append(out, t...)
	}
	out = append(out, t...)
	return append(out, extra...)
}
