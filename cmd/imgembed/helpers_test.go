package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/imgembed/pkg/debug"
	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgembed/pkg/fileutil"
	"github.com/lucas-albers-lz4/imgembed/pkg/log"
	"github.com/lucas-albers-lz4/imgembed/pkg/testutil"
)

// executeCommand is a helper for testing Cobra commands
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// setupTestFs isolates a test from the real filesystem, environment and
// global logging state and returns the in-memory filesystem in use.
func setupTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	t.Cleanup(SetFs(fs))

	t.Setenv("HOME", "/home/test")
	for _, key := range []string{"IMGEMBED_RULES_FILE", "IMGEMBED_LOG_LEVEL", debug.EnvVar} {
		t.Setenv(key, "")
	}

	origDebug := debug.Enabled
	origLevel := log.CurrentLevel()
	t.Cleanup(func() {
		debug.Enabled = origDebug
		log.SetLevel(origLevel)
	})
	testutil.UseTestLogger(t)
	return fs
}

func writeTestFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), fileutil.ReadWriteUserReadOthers))
}

func requireExitCode(t *testing.T, err error, want int) {
	t.Helper()
	require.Error(t, err)
	code, ok := exitcodes.IsExitCodeError(err)
	require.True(t, ok, "expected ExitCodeError, got %T: %v", err, err)
	require.Equal(t, want, code, "unexpected exit code for %v", err)
}

const testRulesFile = `version: "1"
placement: before
rules:
  - platform: flickr
    pattern: 'live\.staticflickr\.com/.+'
  - platform: gyazo
    pattern: '(?:^|//)gyazo\.com/(\w+)$'
    template: 'https://i.gyazo.com/${1}.png'
`
