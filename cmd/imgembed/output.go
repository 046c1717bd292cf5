package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgembed/pkg/fileutil"
	log "github.com/lucas-albers-lz4/imgembed/pkg/log"
)

// validateOutputFormat normalizes format and rejects anything but the allowed values.
func validateOutputFormat(format string, allowed ...string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", &exitcodes.ExitCodeError{
		Code: exitcodes.ExitInvalidOutputFormat,
		Err:  fmt.Errorf("unsupported output format '%s' (supported: %s)", format, strings.Join(allowed, ", ")),
	}
}

// marshalStructured renders v as YAML or JSON.
func marshalStructured(v interface{}, format string) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case outputFormatJSON:
		out, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	default:
		out, err = yaml.Marshal(v)
	}
	if err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitGeneralRuntimeError,
			Err:  fmt.Errorf("failed to marshal output to %s: %w", format, err),
		}
	}
	return out, nil
}

// writeOutput prints content to the command's stdout, or writes it to
// outputFile through AppFs. An existing output file is not overwritten.
func writeOutput(cmd *cobra.Command, outputFile string, content []byte) error {
	if outputFile == "" {
		if _, err := cmd.OutOrStdout().Write(content); err != nil {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitIOError,
				Err:  fmt.Errorf("failed to write output: %w", err),
			}
		}
		return nil
	}

	if err := fileutil.WriteFile(AppFs, outputFile, content, false); err != nil {
		if errors.Is(err, fileutil.ErrFileExists) {
			err = fmt.Errorf("output file '%s' already exists", outputFile)
		}
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
	}
	log.Info("Output written", "file", outputFile, "bytes", len(content))
	return nil
}
