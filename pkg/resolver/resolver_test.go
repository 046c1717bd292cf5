package resolver

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/imgembed/pkg/log"
	"github.com/lucas-albers-lz4/imgembed/pkg/testutil"
)

func TestResolveSupportedPlatforms(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		want         string
		wantPlatform string
		wantRewrite  bool
	}{
		{
			name:         "imgur page",
			input:        "https://imgur.com/AbC123",
			want:         "https://i.imgur.com/AbC123.jpg",
			wantPlatform: PlatformImgur,
			wantRewrite:  true,
		},
		{
			name:         "imgur album",
			input:        "https://imgur.com/a/XyZ789",
			want:         "https://i.imgur.com/XyZ789.jpg",
			wantPlatform: PlatformImgur,
			wantRewrite:  true,
		},
		{
			name:         "imgur www host",
			input:        "http://www.imgur.com/q1w2e3",
			want:         "https://i.imgur.com/q1w2e3.jpg",
			wantPlatform: PlatformImgur,
			wantRewrite:  true,
		},
		{
			name:         "imgur cdn without extension",
			input:        "https://i.imgur.com/AbC123",
			want:         "https://i.imgur.com/AbC123.jpg",
			wantPlatform: PlatformImgur,
			wantRewrite:  true,
		},
		{
			name:         "imgur direct png",
			input:        "https://i.imgur.com/AbC123.png",
			want:         "https://i.imgur.com/AbC123.png",
			wantPlatform: PlatformImgurDirect,
		},
		{
			name:         "imgur direct uppercase extension",
			input:        "https://I.IMGUR.COM/AbC123.GIF",
			want:         "https://I.IMGUR.COM/AbC123.GIF",
			wantPlatform: PlatformImgurDirect,
		},
		{
			name:         "discord cdn",
			input:        "https://cdn.discordapp.com/attachments/1/2/cat.png",
			want:         "https://cdn.discordapp.com/attachments/1/2/cat.png",
			wantPlatform: PlatformDiscord,
		},
		{
			name:         "discord media proxy",
			input:        "https://media.discordapp.net/attachments/1/2/cat.webp?width=400",
			want:         "https://media.discordapp.net/attachments/1/2/cat.webp?width=400",
			wantPlatform: PlatformDiscordMedia,
		},
		{
			name:         "twitter media",
			input:        "https://pbs.twimg.com/media/FxYz123?format=jpg&name=large",
			want:         "https://pbs.twimg.com/media/FxYz123?format=jpg&name=large",
			wantPlatform: PlatformTwitter,
		},
		{
			name:         "instagram post",
			input:        "https://www.instagram.com/p/CxYz_12/",
			want:         "https://www.instagram.com/p/CxYz_12/",
			wantPlatform: PlatformInstagram,
		},
		{
			name:         "giphy gallery with slug",
			input:        "https://giphy.com/gifs/funny-cat-3o7btPCcdNniyf0ArS",
			want:         "https://media.giphy.com/media/3o7btPCcdNniyf0ArS/giphy.gif",
			wantPlatform: PlatformGiphy,
			wantRewrite:  true,
		},
		{
			name:         "giphy gallery without slug",
			input:        "https://giphy.com/gifs/xT9IgG50Fb7Mi0prBC",
			want:         "https://media.giphy.com/media/xT9IgG50Fb7Mi0prBC/giphy.gif",
			wantPlatform: PlatformGiphy,
			wantRewrite:  true,
		},
		{
			name:         "reddit preview",
			input:        "https://preview.redd.it/abc123.png?width=640&auto=webp",
			want:         "https://preview.redd.it/abc123.png?width=640&auto=webp",
			wantPlatform: PlatformReddit,
		},
		{
			name:         "reddit image host",
			input:        "https://i.redd.it/xyz789.jpg",
			want:         "https://i.redd.it/xyz789.jpg",
			wantPlatform: PlatformRedditImage,
		},
		{
			name:         "generic image extension",
			input:        "https://example.com/pic.png",
			want:         "https://example.com/pic.png",
			wantPlatform: PlatformDirectImage,
		},
		{
			name:         "generic image extension with query",
			input:        "https://example.com/photos/pic.JPEG?size=large",
			want:         "https://example.com/photos/pic.JPEG?size=large",
			wantPlatform: PlatformDirectImage,
		},
	}

	r := NewDefault()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := r.Resolve(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, res.URL)
			assert.Equal(t, tt.wantPlatform, res.Platform)
			assert.Equal(t, tt.wantRewrite, res.Rewritten)
			assert.Equal(t, tt.input, res.Input)
		})
	}
}

func TestResolveEmptyInput(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n  "} {
		got, ok := Resolve(input)
		assert.False(t, ok, "input %q", input)
		assert.Empty(t, got, "input %q", input)
	}
}

func TestResolveUnmatchedInputIsTrimmed(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "https://example.com/article", want: "https://example.com/article"},
		{input: "  https://example.com/article  ", want: "https://example.com/article"},
		{input: "not a url at all", want: "not a url at all"},
		{input: "javascript:alert(1)", want: "javascript:alert(1)"},
		{input: "éè unicode ☃", want: "éè unicode ☃"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, ok := Default().Resolve(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, res.URL)
			assert.False(t, res.Matched())
			assert.False(t, res.Rewritten)
		})
	}
}

func TestResolveTrimsBeforeMatching(t *testing.T) {
	got, ok := Resolve("   https://imgur.com/AbC123 \n")
	require.True(t, ok)
	assert.Equal(t, "https://i.imgur.com/AbC123.jpg", got)
}

func TestResolveIsIdempotentOnDirectURLs(t *testing.T) {
	inputs := []string{
		"https://i.imgur.com/AbC123.png",
		"https://cdn.discordapp.com/attachments/1/2/cat.png",
		"https://pbs.twimg.com/media/FxYz123?format=jpg",
		"https://preview.redd.it/abc123.png",
		"https://example.com/pic.svg",
		// outputs of rewriting rules resolve to themselves
		"https://i.imgur.com/AbC123.jpg",
		"https://media.giphy.com/media/3o7btPCcdNniyf0ArS/giphy.gif",
	}
	for _, in := range inputs {
		once, ok := Resolve(in)
		require.True(t, ok)
		twice, ok := Resolve(once)
		require.True(t, ok)
		assert.Equal(t, in, once)
		assert.Equal(t, once, twice)
	}
}

func TestRulePrecedence(t *testing.T) {
	const direct = "https://i.imgur.com/AbC123.png"

	got, _ := Resolve(direct)
	assert.Equal(t, direct, got, "imgurDirect must win over the generic imgur rule")

	// Swapping the two rules lets the generic rule claim the URL.
	table := DefaultTable()
	table[0], table[1] = table[1], table[0]
	r, err := New(table)
	require.NoError(t, err)

	res, ok := r.Resolve(direct)
	require.True(t, ok)
	assert.Equal(t, PlatformImgur, res.Platform)
	assert.Equal(t, "https://i.imgur.com/AbC123.jpg", res.URL)
}

func TestResolveNeverPanicsOnArbitraryInput(t *testing.T) {
	inputs := []string{
		strings.Repeat("a", 10000),
		strings.Repeat("giphy.com/gifs/", 500) + "-",
		"\x00\xff\xfe",
		"imgur.com/",
		"giphy.com/gifs/-",
		"%%%%",
		"${1}",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			got, ok := Resolve(in)
			assert.True(t, ok)
			assert.NotEmpty(t, got)
		})
	}
}

func TestPanickingTransformFallsBackToInput(t *testing.T) {
	table := Table{{
		Platform:  "broken",
		Pattern:   regexp.MustCompile(`broken\.example/(\w+)`),
		Transform: func([]string) string { panic("boom") },
	}}
	r, err := New(table)
	require.NoError(t, err)

	var (
		res Result
		ok  bool
	)
	_, logs, err := testutil.CaptureJSONLogs(t, log.LevelDebug, func() {
		res, ok = r.Resolve("https://broken.example/abc")
	})
	require.NoError(t, err)

	require.True(t, ok)
	assert.Equal(t, "https://broken.example/abc", res.URL)
	assert.Equal(t, "broken", res.Platform)
	assert.False(t, res.Rewritten)

	testutil.AssertLogContainsJSON(t, logs, map[string]interface{}{
		"level":    "WARN",
		"msg":      "Rule transform panicked, keeping original URL",
		"platform": "broken",
		"panic":    "boom",
	})
	testutil.AssertLogDoesNotContainJSON(t, logs, map[string]interface{}{"msg": "URL rewritten"})
}

func TestNewRejectsInvalidTable(t *testing.T) {
	_, err := New(Table{{Platform: "", Pattern: regexp.MustCompile(`x`)}})
	assert.ErrorIs(t, err, ErrEmptyPlatform)

	_, err = New(Table{{Platform: "x"}})
	assert.ErrorIs(t, err, ErrNilPattern)
}

func TestResolverIsIsolatedFromCallerTable(t *testing.T) {
	table := DefaultTable()
	r, err := New(table)
	require.NoError(t, err)

	table[0] = PassthroughRule("hijack", regexp.MustCompile(`.*`), "")
	res, _ := r.Resolve("https://imgur.com/AbC123")
	assert.Equal(t, PlatformImgur, res.Platform)
}

func TestResolveConcurrentUse(t *testing.T) {
	r := NewDefault()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				res, ok := r.Resolve("https://giphy.com/gifs/cat-abc")
				assert.True(t, ok)
				assert.Equal(t, "https://media.giphy.com/media/abc/giphy.gif", res.URL)
			}
		}()
	}
	wg.Wait()
}
