package main

import (
	"fmt"
	"os"

	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
)

// main runs the root command and converts its error into a process exit code.
func main() {
	if err := Execute(); err != nil {
		code, ok := exitcodes.IsExitCodeError(err)
		if !ok {
			code = exitcodes.ExitGeneralRuntimeError
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}
