// Package resolver maps media-hosting URLs to directly embeddable image URLs.
//
// Resolution is a linear scan over an ordered Table of rules. The first rule
// whose pattern matches the trimmed input wins: a rule with a Transform rewrites
// the URL from its capture groups, a rule without one returns the input
// unchanged. Input no rule matches is returned unchanged as well.
package resolver

import (
	"errors"
	"regexp"
)

// Sentinel errors returned by Table.Validate.
var (
	ErrEmptyPlatform = errors.New("rule platform name is empty")
	ErrNilPattern    = errors.New("rule pattern is nil")
)

// TransformFunc rewrites a match into an embeddable URL. groups is the full
// submatch slice: groups[0] is the whole match, groups[1] the first capture.
// Implementations must be pure.
type TransformFunc func(groups []string) string

// Rule associates a platform name with a pattern and an optional transform.
// A nil Transform makes the rule a passthrough.
type Rule struct {
	Platform    string
	Pattern     *regexp.Regexp
	Transform   TransformFunc
	Template    string // source of Transform when built by TemplateRule; display only
	Description string
}

// Passthrough reports whether the rule returns matching input unchanged.
func (r Rule) Passthrough() bool {
	return r.Transform == nil
}

// Placement controls where extra rules go relative to an existing table.
type Placement string

const (
	// PlaceBefore evaluates extra rules ahead of the existing ones.
	PlaceBefore Placement = "before"
	// PlaceAfter evaluates extra rules once every existing rule has missed.
	PlaceAfter Placement = "after"
)

// Result describes one resolution.
type Result struct {
	// Input is the trimmed input URL.
	Input string `json:"input" yaml:"input"`
	// URL is the embeddable URL.
	URL string `json:"resolved" yaml:"resolved"`
	// Platform names the rule that matched; empty when none did.
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`
	// Rewritten is true when a transform produced URL.
	Rewritten bool `json:"rewritten" yaml:"rewritten"`
}

// Matched reports whether any rule matched the input.
func (r Result) Matched() bool {
	return r.Platform != ""
}
