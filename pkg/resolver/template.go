package resolver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidTemplate is wrapped by every template syntax error.
var ErrInvalidTemplate = errors.New("invalid template")

// templatePart is either literal text (group < 0) or a group reference.
type templatePart struct {
	literal string
	group   int
}

// parseTemplate splits tmpl into literal text and group references.
// $N (a single digit) and ${N} reference group N, $$ is a literal '$'.
// Any other use of '$' is an error wrapping ErrInvalidTemplate.
func parseTemplate(tmpl string) ([]templatePart, error) {
	var (
		parts []templatePart
		lit   strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, templatePart{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '$' {
			lit.WriteByte(tmpl[i])
			continue
		}
		if i+1 == len(tmpl) {
			return nil, fmt.Errorf("%w: trailing '$' at offset %d (use $$ for a literal '$')", ErrInvalidTemplate, i)
		}

		next := tmpl[i+1]
		switch {
		case next == '$':
			lit.WriteByte('$')
			i++
		case isDigit(next):
			flush()
			parts = append(parts, templatePart{group: int(next - '0')})
			i++
		case next == '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '${' at offset %d", ErrInvalidTemplate, i)
			}
			ref := tmpl[i+2 : i+2+end]
			n, ok := parseGroup(ref)
			if !ok {
				return nil, fmt.Errorf("%w: '${%s}' at offset %d is not a group number", ErrInvalidTemplate, ref, i)
			}
			flush()
			parts = append(parts, templatePart{group: n})
			i += 2 + end
		default:
			r, _ := utf8.DecodeRuneInString(tmpl[i+1:])
			return nil, fmt.Errorf("%w: '$%c' at offset %d (use $$ for a literal '$')", ErrInvalidTemplate, r, i)
		}
	}
	flush()
	return parts, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseGroup accepts plain decimal digits only, so "+1" and "-1" are rejected.
func parseGroup(ref string) (int, bool) {
	if ref == "" {
		return 0, false
	}
	for i := 0; i < len(ref); i++ {
		if !isDigit(ref[i]) {
			return 0, false
		}
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompileTemplate returns a TransformFunc that expands $N and ${N}
// references in tmpl with capture group N ($0 is the whole match) and $$
// with '$'. References past the last group expand to "".
func CompileTemplate(tmpl string) (TransformFunc, error) {
	parts, err := parseTemplate(tmpl)
	if err != nil {
		return nil, err
	}
	return func(groups []string) string {
		var b strings.Builder
		for _, p := range parts {
			switch {
			case p.group < 0:
				b.WriteString(p.literal)
			case p.group < len(groups):
				b.WriteString(groups[p.group])
			}
		}
		return b.String()
	}, nil
}

// NewTemplateTransform is like CompileTemplate but panics if tmpl is
// malformed. It is meant for templates fixed at compile time.
func NewTemplateTransform(tmpl string) TransformFunc {
	fn, err := CompileTemplate(tmpl)
	if err != nil {
		panic(fmt.Sprintf("resolver: NewTemplateTransform(%q): %v", tmpl, err))
	}
	return fn
}

// TemplateRefs returns the group numbers referenced by tmpl, in order of
// appearance, using the same parser as CompileTemplate.
func TemplateRefs(tmpl string) ([]int, error) {
	parts, err := parseTemplate(tmpl)
	if err != nil {
		return nil, err
	}
	var refs []int
	for _, p := range parts {
		if p.group >= 0 {
			refs = append(refs, p.group)
		}
	}
	return refs, nil
}

// TemplateRule builds a rewriting rule from a pattern and a template. It
// panics on a malformed template; check user input with TemplateRefs first.
func TemplateRule(platform string, pattern *regexp.Regexp, tmpl, description string) Rule {
	return Rule{
		Platform:    platform,
		Pattern:     pattern,
		Transform:   NewTemplateTransform(tmpl),
		Template:    tmpl,
		Description: description,
	}
}

// PassthroughRule builds a rule that returns matching input unchanged.
func PassthroughRule(platform string, pattern *regexp.Regexp, description string) Rule {
	return Rule{
		Platform:    platform,
		Pattern:     pattern,
		Description: description,
	}
}
