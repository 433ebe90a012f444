// Package export renders threads for copying out of the app and reads exported markdown back in.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/render"
	"github.com/debemdeboas/thread-drafts/internal/util"
)

const (
	FormatText     = "txt"
	FormatMarkdown = "md"
	FormatHTML     = "html"
)

// TweetSeparator sits between posts when a whole thread is copied at once.
const TweetSeparator = "\n\n"

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoTweets      = errors.New("document has no tweets")
	ErrNoTopic       = errors.New("document has no title")
	ErrOverLimit     = errors.New("document has tweets over the length limit")
)

// Text joins every post with a blank line, ready to paste.
func Text(t *model.Thread) string {
	return strings.Join(t.Tweets, TweetSeparator)
}

func Tweet(t *model.Thread, i int) (string, error) {
	if i < 0 || i >= len(t.Tweets) {
		return "", fmt.Errorf("tweet %d of %d: out of range", i, len(t.Tweets))
	}
	return t.Tweets[i], nil
}

type frontMatter struct {
	Title   string    `toml:"title"`
	Date    time.Time `toml:"date"`
	ID      string    `toml:"id"`
	Created int64     `toml:"created"`
	Updated int64     `toml:"updated"`
	Tweets  []string  `toml:"tweets"`
}

// Markdown writes a %%% TOML title block carrying the full thread, followed by a readable
// body with one section per post.
func Markdown(t *model.Thread) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("%%%\n")
	fm := frontMatter{
		Title:   t.Topic,
		Date:    t.UpdatedAt.UTC(),
		ID:      string(t.ID),
		Created: model.ToMillis(t.CreatedAt),
		Updated: model.ToMillis(t.UpdatedAt),
		Tweets:  t.Tweets,
	}
	if err := toml.NewEncoder(&buf).Encode(fm); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	buf.WriteString("%%%\n\n")

	buf.WriteString(body(t))
	return buf.Bytes(), nil
}

func body(t *model.Thread) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", t.Topic)
	for i, tweet := range t.Tweets {
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", t.Label(i), tweet)
	}
	return sb.String()
}

var htmlPage = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML renders the markdown export as a standalone page. Code fences inside posts are
// highlighted with syntaxTheme.
func HTML(t *model.Thread, syntaxTheme string) ([]byte, error) {
	md, err := Markdown(t)
	if err != nil {
		return nil, err
	}

	rendered, info := render.RenderMarkdownCached(md, util.ContentHash(md), syntaxTheme)

	data := struct {
		Lang  string
		Title string
		Body  template.HTML
	}{
		Lang:  "en",
		Title: t.Topic,
		Body:  template.HTML(rendered),
	}
	if info != nil && info.Language != "" {
		data.Lang = info.Language
	}

	var buf bytes.Buffer
	if err := htmlPage.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render produces the thread in the named format along with its content type.
func Render(t *model.Thread, format, syntaxTheme string) ([]byte, string, error) {
	switch format {
	case FormatText, "":
		return []byte(Text(t)), config.CTypeText, nil
	case FormatMarkdown:
		md, err := Markdown(t)
		return md, config.CTypeMarkdown, err
	case FormatHTML:
		page, err := HTML(t, syntaxTheme)
		return page, config.CTypeHTML + "; charset=utf-8", err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
