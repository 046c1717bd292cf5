// Package exitcodes provides centralized exit code definitions for the imgembed CLI.
// Exit codes are organized in ranges:
//
//	0:     Success
//	1-9:   Input/Configuration Errors (missing arguments, invalid config, bad rules file)
//	10-19: Rendering Errors (page parsing, markup output)
//	20-29: Runtime Errors (I/O, server failures)
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants organized by category
const (
	// Success (0)
	ExitSuccess = 0

	// Input/Configuration Errors (1-9)
	ExitMissingRequiredArg      = 1 // Required argument or flag not provided
	ExitInputConfigurationError = 2 // General configuration error
	ExitRulesFileError          = 3 // Rules file missing, unreadable or invalid
	ExitInvalidOutputFormat     = 4 // Unknown --output-format or --mode value

	// Rendering Errors (10-19)
	ExitRenderError    = 10 // Failed to build or serialize markup
	ExitPageParseError = 11 // Failed to parse the HTML page given with --page

	// Runtime Errors (20-29)
	ExitGeneralRuntimeError = 20 // General runtime/system error
	ExitIOError             = 21 // IO operation error
	ExitServerError         = 22 // HTTP server failed to start or stop cleanly
)

// ExitCodeError wraps an error with an exit code so commands can report
// both the cause and the process status to main.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess:                 "Success",
	ExitMissingRequiredArg:      "Required argument or flag not provided",
	ExitInputConfigurationError: "General configuration error",
	ExitRulesFileError:          "Rules file missing, unreadable or invalid",
	ExitInvalidOutputFormat:     "Unknown output format or render mode",
	ExitRenderError:             "Failed to build or serialize markup",
	ExitPageParseError:          "Failed to parse HTML page",
	ExitGeneralRuntimeError:     "General runtime/system error",
	ExitIOError:                 "IO operation error",
	ExitServerError:             "HTTP server error",
}
