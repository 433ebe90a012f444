package render

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/debemdeboas/thread-drafts/internal/cache"
)

func setupTest() {
	cache.ClearRenderedMarkdownCache()
}

func TestRenderMarkdown(t *testing.T) {
	testCases := []struct {
		name       string
		markdown   string
		contains   []string
		notContain []string
		expectInfo bool
	}{
		{
			name:     "Headings and paragraphs",
			markdown: "## Hook\n\nShip it on a Tuesday.\n",
			contains: []string{"<h2", "Hook</h2>", "<p>Ship it on a Tuesday.</p>"},
		},
		{
			name:     "Line breaks inside a tweet are kept",
			markdown: "first line\nsecond line\n",
			contains: []string{"first line<br"},
		},
		{
			name:     "Code fences are highlighted",
			markdown: "```go\nfunc main() {}\n```\n",
			contains: []string{`<div class="highlight">`, "style="},
		},
		{
			name:       "Raw HTML is dropped",
			markdown:   "hello <script>alert('x')</script>\n",
			notContain: []string{"<script>"},
		},
		{
			name:       "Front matter is not rendered",
			markdown:   "%%%\ntitle = \"Launch tips\"\n%%%\n\n## Hook\n",
			contains:   []string{"Hook</h2>"},
			notContain: []string{"%%%", "title ="},
			expectInfo: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			html, info := RenderMarkdown([]byte(tc.markdown), DefaultSyntaxTheme)

			for _, s := range tc.contains {
				if !strings.Contains(string(html), s) {
					t.Errorf("Expected HTML to contain %q, got %s", s, html)
				}
			}
			for _, s := range tc.notContain {
				if strings.Contains(string(html), s) {
					t.Errorf("Expected HTML not to contain %q, got %s", s, html)
				}
			}

			if tc.expectInfo {
				if info == nil || info.Title != "Launch tips" {
					t.Errorf("Expected title data, got %+v", info)
				}
			} else if info != nil {
				t.Errorf("Expected no title data, got %+v", info)
			}
		})
	}
}

func TestHighlightCode(t *testing.T) {
	t.Run("Unknown language falls back", func(t *testing.T) {
		out := HighlightCode("just text", "no-such-language", DefaultSyntaxTheme)
		if !strings.Contains(out, "just text") {
			t.Errorf("Expected code to survive, got %q", out)
		}
	})

	t.Run("Unknown style falls back", func(t *testing.T) {
		out := HighlightCode("x := 1", "go", "no-such-style")
		if out == "" {
			t.Error("Expected highlighted output")
		}
	})
}

func TestRenderMarkdownCached(t *testing.T) {
	setupTest()
	md := []byte("%%%\ntitle = \"Cached\"\n%%%\n## Hook\n")

	html1, info1 := RenderMarkdownCached(md, "hash-1", DefaultSyntaxTheme)

	cached, found := cache.GetRenderedMarkdown("hash-1", DefaultSyntaxTheme)
	if !found {
		t.Fatal("Expected content to be cached")
	}
	if !bytes.Equal(cached.HTML, html1) {
		t.Error("Cached HTML mismatch")
	}

	html2, info2 := RenderMarkdownCached([]byte("ignored on a hit"), "hash-1", DefaultSyntaxTheme)
	if !bytes.Equal(html1, html2) {
		t.Error("Cache hit should return identical HTML")
	}
	if info1 != info2 || info2.Title != "Cached" {
		t.Errorf("Cache hit should return identical title data, got %+v", info2)
	}

	t.Run("Themes are keyed separately", func(t *testing.T) {
		RenderMarkdownCached(md, "hash-1", "monokai")
		if _, found := cache.GetRenderedMarkdown("hash-1", "monokai"); !found {
			t.Error("Expected second theme to be cached")
		}
	})

	t.Run("Empty hash bypasses cache", func(t *testing.T) {
		setupTest()
		RenderMarkdownCached(md, "", DefaultSyntaxTheme)
		if _, found := cache.GetRenderedMarkdown("", DefaultSyntaxTheme); found {
			t.Error("Expected nothing cached for empty hash")
		}
	})
}

func TestRenderMarkdownCachedConcurrency(t *testing.T) {
	setupTest()
	md := []byte("## Hook\n\nbody\n")

	var wg sync.WaitGroup
	results := make([][]byte, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = RenderMarkdownCached(md, "hash-concurrent", DefaultSyntaxTheme)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if !bytes.Equal(results[0], results[i]) {
			t.Fatalf("Expected identical renders, result %d differs", i)
		}
	}
}
