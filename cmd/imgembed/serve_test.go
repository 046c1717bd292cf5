package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/imgembed/pkg/embed"
	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgembed/pkg/testutil"
)

func serveRequest(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	newRouter(embed.Default()).ServeHTTP(rec, req)
	return rec
}

func TestResolveHandler(t *testing.T) {
	testutil.UseTestLogger(t)

	tests := []struct {
		name         string
		input        string
		wantResolved interface{}
		wantPlatform interface{}
	}{
		{name: "imgur page", input: "https://imgur.com/a/AbC", wantResolved: "https://i.imgur.com/AbC.jpg", wantPlatform: "imgur"},
		{name: "unmatched", input: "https://example.com/", wantResolved: "https://example.com/", wantPlatform: nil},
		{name: "empty", input: "", wantResolved: nil, wantPlatform: nil},
		{name: "blank", input: "   ", wantResolved: nil, wantPlatform: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveRequest(t, http.MethodGet, "/api/resolve?url="+url.QueryEscape(tt.input))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "resolved")
			assert.Equal(t, tt.wantResolved, body["resolved"])
			assert.Equal(t, tt.wantPlatform, body["platform"])
		})
	}
}

func TestPreviewHandler(t *testing.T) {
	testutil.UseTestLogger(t)

	rec := serveRequest(t, http.MethodGet, "/preview?url="+url.QueryEscape("https://example.com/a.png")+"&container=hero")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeHTML, rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<div id="hero"><img src="https://example.com/a.png" alt="Preview"`), body)
	assert.True(t, strings.HasSuffix(body, `/></div>`), body)

	rec = serveRequest(t, http.MethodGet, "/preview")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<div id="image-preview"><span class="preview-placeholder">image preview</span></div>`, rec.Body.String())
}

func TestImageHandler(t *testing.T) {
	testutil.UseTestLogger(t)

	rec := serveRequest(t, http.MethodGet, "/image?url="+url.QueryEscape("https://giphy.com/gifs/abc")+"&alt=Cat")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(),
		`<img src="https://media.giphy.com/media/abc/giphy.gif" alt="Cat" crossorigin="anonymous"`), rec.Body.String())

	rec = serveRequest(t, http.MethodGet, "/image?url="+url.QueryEscape(`https://x.test/"><script>.png`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), `alt="Image"`)
}

func TestHealthzAndMethods(t *testing.T) {
	testutil.UseTestLogger(t)

	rec := serveRequest(t, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = serveRequest(t, http.MethodPost, "/api/resolve?url=x")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serveRequest(t, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunServerGracefulShutdown(t *testing.T) {
	testutil.UseTestLogger(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, addr, newRouter(embed.Default()))
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + addr + "/healthz")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok\n", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServerListenError(t *testing.T) {
	testutil.UseTestLogger(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = runServer(context.Background(), ln.Addr().String(), http.NotFoundHandler())
	requireExitCode(t, err, exitcodes.ExitServerError)
}
