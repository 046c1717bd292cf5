package main

import (
	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/imgembed/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := validateOutputFormat(outputFormat, outputFormatText, outputFormatYAML, outputFormatJSON)
			if err != nil {
				return err
			}
			info := version.Get()
			if format == outputFormatText {
				return writeOutput(cmd, "", []byte(info.String()+"\n"))
			}
			content, err := marshalStructured(info, format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, "", content)
		},
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", outputFormatText, "Output format (text, yaml or json)")
	return cmd
}
