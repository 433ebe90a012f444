// Package render turns thread markdown into HTML, highlighting fenced code with chroma.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mmarkdown/mmark/v2/mast"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/cache"
	"github.com/debemdeboas/thread-drafts/internal/util"
)

const DefaultSyntaxTheme = "github"

var renderLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// HighlightCode renders code with inline styles so the output needs no stylesheet.
func HighlightCode(code, language, syntaxTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	style := styles.Get(syntaxTheme)
	if style == nil {
		style = styles.Fallback
	}

	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4), chromahtml.WrapLongLines(true))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// RenderMarkdown renders md to HTML. A leading %%% title block is decoded and returned
// instead of being rendered; without one the title data is nil.
func RenderMarkdown(md []byte, syntaxTheme string) ([]byte, *mast.TitleData) {
	var info *mast.TitleData
	if fm, err := util.GetFrontMatter(md); err == nil {
		info = fm.TitleData
		_, md, _ = util.SplitFrontMatter(md)
	} else {
		md = markdown.NormalizeNewlines(md)
	}

	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.HrefTargetBlank | md_html.SkipHTML,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				var lang string
				if info := code.Info; info != nil {
					lang = string(info)
				}
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", HighlightCode(string(code.Literal), lang, syntaxTheme))
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		},
	}

	doc := parser.NewWithExtensions(
		parser.FencedCode | parser.Autolink | parser.Strikethrough | parser.SpaceHeadings |
			parser.HardLineBreak | parser.NoIntraEmphasis,
	).Parse(md)

	return markdown.Render(doc, md_html.NewRenderer(opts)), info
}

// Mutex to protect the check-render-set operation in RenderMarkdownCached
var renderCacheMutex sync.Mutex

func RenderMarkdownCached(md []byte, contentHash, syntaxTheme string) ([]byte, *mast.TitleData) {
	if contentHash == "" {
		renderLogger.Warn().Msg("Content hash is empty, skipping cache check")
		return RenderMarkdown(md, syntaxTheme)
	}

	if cached, found := cache.GetRenderedMarkdown(contentHash, syntaxTheme); found {
		renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache hit for rendered markdown")
		info, _ := cached.Extra.(*mast.TitleData)
		return cached.HTML, info
	}

	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	if cached, found := cache.GetRenderedMarkdown(contentHash, syntaxTheme); found {
		info, _ := cached.Extra.(*mast.TitleData)
		return cached.HTML, info
	}

	renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache miss for rendered markdown")
	html, info := RenderMarkdown(md, syntaxTheme)
	cache.SetRenderedMarkdown(contentHash, syntaxTheme, html, info)

	return html, info
}
