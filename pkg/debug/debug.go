// Package debug provides conditional stderr tracing for the imgembed CLI.
//
// It is separate from pkg/log: log records are structured and always
// filtered by level, while debug output is a plain "[DEBUG] ..." stream that
// only appears when --debug or IMGEMBED_DEBUG is set.
package debug

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// EnvVar enables debug output when set to a true value.
const EnvVar = "IMGEMBED_DEBUG"

var (
	// Enabled indicates whether debug output is written.
	Enabled bool

	debugPrefix           = "[DEBUG] "
	out         io.Writer = os.Stderr
)

// Init sets Enabled. When force is false the IMGEMBED_DEBUG environment
// variable decides; unparsable values count as false.
func Init(force bool) {
	if force {
		Enabled = true
		return
	}
	Enabled = envEnabled()
}

func envEnabled() bool {
	v := strings.TrimSpace(os.Getenv(EnvVar))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

// SetOutput redirects debug output and returns a restore function.
func SetOutput(w io.Writer) (restore func()) {
	prev := out
	out = w
	return func() { out = prev }
}

// Printf prints a debug message if debug output is enabled.
func Printf(format string, args ...interface{}) {
	if Enabled {
		fmt.Fprintf(out, debugPrefix+format+"\n", args...)
	}
}

// Println prints a debug message if debug output is enabled.
func Println(args ...interface{}) {
	if Enabled {
		fmt.Fprintln(out, debugPrefix+fmt.Sprint(args...))
	}
}

// FunctionEnter traces entry into funcName.
func FunctionEnter(funcName string) {
	if Enabled {
		fmt.Fprintf(out, "%s→ Entering %s\n", debugPrefix, funcName)
	}
}

// FunctionExit traces exit from funcName.
func FunctionExit(funcName string) {
	if Enabled {
		fmt.Fprintf(out, "%s← Exiting %s\n", debugPrefix, funcName)
	}
}

// DumpValue prints label and a %+v rendering of value.
func DumpValue(label string, value interface{}) {
	if Enabled {
		fmt.Fprintf(out, "%s%s: %+v\n", debugPrefix, label, value)
	}
}

// SetPrefix sets a custom prefix; a trailing space is added if missing.
func SetPrefix(prefix string) {
	if !strings.HasSuffix(prefix, " ") {
		prefix += " "
	}
	debugPrefix = prefix
}
