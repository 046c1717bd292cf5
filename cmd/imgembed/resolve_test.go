package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
)

func TestResolveCommand_Text(t *testing.T) {
	setupTestFs(t)

	out, err := executeCommand(newRootCmd(), "resolve",
		"https://imgur.com/gallery1",
		"",
		"  https://example.com/pic.png ",
		"https://example.com/page",
	)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"https://i.imgur.com/gallery1.jpg",
		"-",
		"https://example.com/pic.png",
		"https://example.com/page",
	}, "\n")+"\n", out)
}

func TestResolveCommand_YAML(t *testing.T) {
	setupTestFs(t)

	out, err := executeCommand(newRootCmd(), "resolve", "--output-format", "yaml", "https://giphy.com/gifs/funny-cat-xyz9", "")
	require.NoError(t, err)
	assert.Contains(t, out, "resolved: null")

	var entries []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "https://media.giphy.com/media/xyz9/giphy.gif", entries[0]["resolved"])
	assert.Equal(t, "giphy", entries[0]["platform"])
	assert.Equal(t, true, entries[0]["rewritten"])
	assert.Equal(t, "", entries[1]["input"])
	assert.Nil(t, entries[1]["resolved"])
	assert.NotContains(t, entries[1], "platform")
}

func TestResolveCommand_JSON(t *testing.T) {
	setupTestFs(t)

	out, err := executeCommand(newRootCmd(), "resolve", "--output-format", "JSON",
		"https://i.imgur.com/abc.png", "https://example.com/x")
	require.NoError(t, err)

	var entries []resolveEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].Resolved)
	assert.Equal(t, "https://i.imgur.com/abc.png", *entries[0].Resolved)
	assert.Equal(t, "imgurDirect", entries[0].Platform)
	assert.False(t, entries[0].Rewritten)

	require.NotNil(t, entries[1].Resolved)
	assert.Equal(t, "https://example.com/x", *entries[1].Resolved)
	assert.Empty(t, entries[1].Platform)
}

func TestResolveCommand_InputFile(t *testing.T) {
	fs := setupTestFs(t)
	writeTestFile(t, fs, "/urls.txt", "https://imgur.com/a/one\n\nhttps://i.redd.it/two.png\n")

	out, err := executeCommand(newRootCmd(), "resolve", "--input-file", "/urls.txt")
	require.NoError(t, err)
	assert.Equal(t, "https://i.imgur.com/one.jpg\n-\nhttps://i.redd.it/two.png\n", out)

	_, err = executeCommand(newRootCmd(), "resolve", "--input-file", "/missing.txt")
	requireExitCode(t, err, exitcodes.ExitIOError)
}

func TestResolveCommand_Stdin(t *testing.T) {
	setupTestFs(t)

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("https://imgur.com/xyz\n"))
	out, err := executeCommand(cmd, "resolve", "https://example.com/first.gif", "--input-file=-")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/first.gif\nhttps://i.imgur.com/xyz.jpg\n", out)
}

func TestResolveCommand_OutputFile(t *testing.T) {
	fs := setupTestFs(t)

	out, err := executeCommand(newRootCmd(), "resolve", "-o", "/out/resolved.txt", "https://imgur.com/q")
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := afero.ReadFile(fs, "/out/resolved.txt")
	require.NoError(t, err)
	assert.Equal(t, "https://i.imgur.com/q.jpg\n", string(content))

	_, err = executeCommand(newRootCmd(), "resolve", "-o", "/out/resolved.txt", "https://imgur.com/q")
	requireExitCode(t, err, exitcodes.ExitIOError)
	assert.Contains(t, err.Error(), "already exists")
}

func TestResolveCommand_Errors(t *testing.T) {
	setupTestFs(t)

	_, err := executeCommand(newRootCmd(), "resolve")
	requireExitCode(t, err, exitcodes.ExitMissingRequiredArg)

	_, err = executeCommand(newRootCmd(), "resolve", "--output-format", "xml", "https://imgur.com/q")
	requireExitCode(t, err, exitcodes.ExitInvalidOutputFormat)
}
