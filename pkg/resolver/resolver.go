package resolver

import (
	"strings"

	"github.com/lucas-albers-lz4/imgembed/pkg/log"
)

// Resolver evaluates an immutable rule table. It is safe for concurrent use.
type Resolver struct {
	table Table
}

// New returns a Resolver over a copy of table.
func New(table Table) (*Resolver, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{table: table.Clone()}, nil
}

// NewDefault returns a Resolver over the built-in rules.
func NewDefault() *Resolver {
	return &Resolver{table: DefaultTable()}
}

var defaultResolver = NewDefault()

// Default returns the shared Resolver over the built-in rules.
func Default() *Resolver {
	return defaultResolver
}

// Resolve resolves raw with the built-in rules. The boolean is false when raw
// is empty or only whitespace, meaning there is nothing to preview.
func Resolve(raw string) (string, bool) {
	res, ok := defaultResolver.Resolve(raw)
	return res.URL, ok
}

// Table returns a copy of the resolver's rules.
func (r *Resolver) Table() Table {
	return r.table.Clone()
}

// Resolve trims raw and returns the embeddable URL produced by the first
// matching rule. Input no rule matches comes back trimmed but otherwise
// unchanged. The boolean is false only for empty or whitespace-only input.
func (r *Resolver) Resolve(raw string) (Result, bool) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return Result{}, false
	}

	res := Result{Input: url, URL: url}
	for _, rule := range r.table {
		groups := rule.Pattern.FindStringSubmatch(url)
		if groups == nil {
			continue
		}
		res.Platform = rule.Platform
		if rule.Transform == nil {
			log.Debug("URL matched passthrough rule", "platform", rule.Platform, "url", url)
			return res, true
		}
		if out, ok := apply(rule, groups); ok {
			res.URL = out
			res.Rewritten = out != url
			log.Debug("URL rewritten", "platform", rule.Platform, "from", url, "to", out)
		}
		return res, true
	}

	log.Debug("No rule matched URL, passing through", "url", url)
	return res, true
}

// apply runs rule.Transform, turning a panic into ok == false so that
// resolution never fails.
func apply(rule Rule, groups []string) (out string, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			log.Warn("Rule transform panicked, keeping original URL", "platform", rule.Platform, "panic", p)
			out, ok = "", false
		}
	}()
	return rule.Transform(groups), true
}
