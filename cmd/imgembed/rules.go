package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/imgembed/pkg/resolver"
)

// Rule kinds shown by the rules command
const (
	ruleKindPassthrough = "passthrough"
	ruleKindTemplate    = "template"
	ruleKindCustom      = "custom"
)

// RuleInfo describes one rule of the effective table.
type RuleInfo struct {
	Index       int    `json:"index" yaml:"index"`
	Platform    string `json:"platform" yaml:"platform"`
	Kind        string `json:"kind" yaml:"kind"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Template    string `json:"template,omitempty" yaml:"template,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func describeRules(table resolver.Table) []RuleInfo {
	infos := make([]RuleInfo, 0, len(table))
	for i, r := range table {
		kind := ruleKindCustom
		switch {
		case r.Passthrough():
			kind = ruleKindPassthrough
		case r.Template != "":
			kind = ruleKindTemplate
		}
		infos = append(infos, RuleInfo{
			Index:       i,
			Platform:    r.Platform,
			Kind:        kind,
			Pattern:     r.Pattern.String(),
			Template:    r.Template,
			Description: r.Description,
		})
	}
	return infos
}

func newRulesCmd() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the effective URL rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := validateOutputFormat(outputFormat, outputFormatText, outputFormatYAML, outputFormatJSON)
			if err != nil {
				return err
			}
			e, err := loadEmbedder()
			if err != nil {
				return err
			}
			infos := describeRules(e.Resolver().Table())

			if format != outputFormatText {
				content, err := marshalStructured(infos, format)
				if err != nil {
					return err
				}
				return writeOutput(cmd, "", content)
			}
			return writeOutput(cmd, "", []byte(formatRulesTable(infos)))
		},
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", outputFormatText, "Output format (text, yaml or json)")
	return cmd
}

func formatRulesTable(infos []RuleInfo) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLATFORM\tKIND\tPATTERN\tTEMPLATE")
	for _, info := range infos {
		tmpl := info.Template
		if tmpl == "" {
			tmpl = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", info.Index, info.Platform, info.Kind, info.Pattern, tmpl)
	}
	// strings.Builder writes cannot fail
	_ = tw.Flush()
	return sb.String()
}
