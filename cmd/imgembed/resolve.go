package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/imgembed/pkg/embed"
	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgembed/pkg/fileutil"
	log "github.com/lucas-albers-lz4/imgembed/pkg/log"
	"github.com/lucas-albers-lz4/imgembed/pkg/resolver"
)

// resolveEntry is one line of resolve output. Resolved is nil for blank input.
type resolveEntry struct {
	Input     string  `json:"input" yaml:"input"`
	Resolved  *string `json:"resolved" yaml:"resolved"`
	Platform  string  `json:"platform,omitempty" yaml:"platform,omitempty"`
	Rewritten bool    `json:"rewritten" yaml:"rewritten"`
}

func newResolveEntry(r *resolver.Resolver, input string) resolveEntry {
	entry := resolveEntry{Input: input}
	res, ok := r.Resolve(input)
	if !ok {
		return entry
	}
	url := res.URL
	entry.Resolved = &url
	entry.Platform = res.Platform
	entry.Rewritten = res.Rewritten
	return entry
}

// ResolveFlags holds the command line flags for the resolve command
type ResolveFlags struct {
	InputFile    string
	OutputFile   string
	OutputFormat string
}

func newResolveCmd() *cobra.Command {
	flags := &ResolveFlags{}
	cmd := &cobra.Command{
		Use:   "resolve [url...]",
		Short: "Print the embeddable image URL for each input URL",
		Long: `Resolve each URL against the rule table and print the embeddable image URL.
URLs are taken from the arguments, or one per line from --input-file ('-' reads stdin).
Blank inputs produce a null entry ('-' in text output).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.InputFile, "input-file", "i", "", "Read URLs from file, one per line ('-' for stdin)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output-file", "o", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&flags.OutputFormat, "output-format", outputFormatText, "Output format (text, yaml or json)")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string, flags *ResolveFlags) error {
	format, err := validateOutputFormat(flags.OutputFormat, outputFormatText, outputFormatYAML, outputFormatJSON)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(cmd, args, flags.InputFile)
	if err != nil {
		return err
	}

	e, err := loadEmbedder()
	if err != nil {
		return err
	}

	entries := resolveAll(e, inputs)

	var content []byte
	if format == outputFormatText {
		var sb strings.Builder
		for _, entry := range entries {
			if entry.Resolved == nil {
				sb.WriteString(emptyResolved)
			} else {
				sb.WriteString(*entry.Resolved)
			}
			sb.WriteByte('\n')
		}
		content = []byte(sb.String())
	} else {
		content, err = marshalStructured(entries, format)
		if err != nil {
			return err
		}
	}
	return writeOutput(cmd, flags.OutputFile, content)
}

func resolveAll(e *embed.Embedder, inputs []string) []resolveEntry {
	entries := make([]resolveEntry, 0, len(inputs))
	matched := 0
	for _, in := range inputs {
		entry := newResolveEntry(e.Resolver(), in)
		if entry.Platform != "" {
			matched++
		}
		entries = append(entries, entry)
	}
	log.Debug("Resolved inputs", "count", len(inputs), "matched", matched)
	return entries
}

// collectInputs returns the URLs from args followed by those in inputFile.
func collectInputs(cmd *cobra.Command, args []string, inputFile string) ([]string, error) {
	inputs := append([]string(nil), args...)
	switch inputFile {
	case "":
	case stdinFileName:
		lines, err := fileutil.ScanLines(cmd.InOrStdin())
		if err != nil {
			return nil, &exitcodes.ExitCodeError{
				Code: exitcodes.ExitIOError,
				Err:  fmt.Errorf("failed to read URLs from stdin: %w", err),
			}
		}
		inputs = append(inputs, lines...)
	default:
		lines, err := fileutil.ReadLines(AppFs, inputFile)
		if err != nil {
			return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
		}
		inputs = append(inputs, lines...)
	}

	if len(inputs) == 0 {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitMissingRequiredArg,
			Err:  fmt.Errorf("no URLs given: pass them as arguments or with --input-file"),
		}
	}
	return inputs, nil
}
