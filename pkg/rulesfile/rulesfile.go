// Package rulesfile loads user-defined URL rules from a YAML file and merges
// them with the built-in resolver table.
package rulesfile

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	"github.com/lucas-albers-lz4/imgembed/pkg/debug"
	"github.com/lucas-albers-lz4/imgembed/pkg/log"
	"github.com/lucas-albers-lz4/imgembed/pkg/resolver"
)

// File is the parsed rules file.
type File struct {
	// Version of the file format (for future compatibility)
	Version string `json:"version,omitempty"`
	// Placement puts the file's rules before or after the built-in ones
	PlacementName string `json:"placement,omitempty"`
	// Rules in evaluation order
	Entries []Entry `json:"rules"`

	compiled []resolver.Rule
}

// Entry is one rule as written in the file.
type Entry struct {
	Platform string `json:"platform"`
	Pattern  string `json:"pattern"`
	// Template rewrites the match using $N or ${N} group references.
	// Empty means the input URL is used unchanged.
	Template    string `json:"template,omitempty"`
	Description string `json:"description,omitempty"`
	// Enabled defaults to true when omitted
	Enabled *bool `json:"enabled,omitempty"`
}

// IsEnabled reports whether the entry takes part in resolution.
func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Load reads, parses and validates the rules file at path.
func Load(fs afero.Fs, path string) (*File, error) {
	data, err := readFile(fs, path)
	if err != nil {
		return nil, err
	}
	debug.Printf("rulesfile.Load: parsing %s (%d bytes)", path, len(data))

	f, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded rules file", "path", path, "rules", len(f.compiled), "placement", string(f.Placement()))
	return f, nil
}

// Parse parses and validates rules file content. path is only used in errors.
func Parse(data []byte, path string) (*File, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, WrapRulesFileEmpty(path)
	}

	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, WrapRulesFileParse(path, err)
	}
	if err := f.validate(path); err != nil {
		return nil, err
	}
	return &f, nil
}

func readFile(fs afero.Fs, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("rules file path cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, WrapRulesExtension(path)
	}

	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WrapRulesFileNotExist(path, err)
		}
		return nil, WrapRulesFileRead(path, err)
	}
	if info.IsDir() {
		return nil, WrapRulesFileRead(path, errors.Errorf("%s is a directory, not a file", path))
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, WrapRulesFileRead(path, err)
	}
	return data, nil
}

func (f *File) validate(path string) error {
	switch resolver.Placement(strings.ToLower(f.PlacementName)) {
	case "", resolver.PlaceBefore, resolver.PlaceAfter:
	default:
		return WrapInvalidPlacement(path, f.PlacementName)
	}
	if len(f.Entries) == 0 {
		return WrapRulesFileEmpty(path)
	}

	f.compiled = f.compiled[:0]
	for i, e := range f.Entries {
		if strings.TrimSpace(e.Platform) == "" {
			return WrapInvalidRule(path, i, "", "platform is required", nil)
		}
		if e.Pattern == "" {
			return WrapInvalidRule(path, i, e.Platform, "pattern is required", nil)
		}
		re, err := regexp.Compile("(?i)" + e.Pattern)
		if err != nil {
			return WrapInvalidRule(path, i, e.Platform, "pattern does not compile", err)
		}
		refs, err := resolver.TemplateRefs(e.Template)
		if err != nil {
			return WrapInvalidRule(path, i, e.Platform, "template is malformed", err)
		}
		for _, ref := range refs {
			if ref > re.NumSubexp() {
				return WrapInvalidRule(path, i, e.Platform,
					"template references a group the pattern does not define", nil)
			}
		}
		if !e.IsEnabled() {
			debug.Printf("rulesfile: skipping disabled rule %d (%s)", i, e.Platform)
			continue
		}

		var rule resolver.Rule
		if e.Template == "" {
			rule = resolver.PassthroughRule(e.Platform, re, e.Description)
		} else {
			rule = resolver.TemplateRule(e.Platform, re, e.Template, e.Description)
		}
		f.compiled = append(f.compiled, rule)
	}
	return nil
}

// Rules returns the enabled rules in file order.
func (f *File) Rules() []resolver.Rule {
	out := make([]resolver.Rule, len(f.compiled))
	copy(out, f.compiled)
	return out
}

// Placement returns where the rules go relative to the base table.
// An omitted placement means before, so file rules can override built-ins.
func (f *File) Placement() resolver.Placement {
	if resolver.Placement(strings.ToLower(f.PlacementName)) == resolver.PlaceAfter {
		return resolver.PlaceAfter
	}
	return resolver.PlaceBefore
}

// Table merges the file's rules into base.
func (f *File) Table(base resolver.Table) resolver.Table {
	return base.With(f.Rules(), f.Placement())
}

// LoadTable loads path and merges it into the built-in table. An empty path
// returns the built-in table unchanged.
func LoadTable(fs afero.Fs, path string) (resolver.Table, error) {
	if path == "" {
		return resolver.DefaultTable(), nil
	}
	f, err := Load(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "loading rules file")
	}
	return f.Table(resolver.DefaultTable()), nil
}
