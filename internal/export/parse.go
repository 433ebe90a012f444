package export

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mmarkdown/mmark/v2/mast"

	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/util"
)

// ParseMarkdown reads a thread back from markdown. The title block is authoritative; a
// document without tweets in its title block has them read from its "## " sections, so
// hand-written files can be imported too. Missing ids are generated. A document with a post
// over model.MaxTweetLength is rejected with ErrOverLimit, the same rule the editor applies
// before saving.
func ParseMarkdown(md []byte) (*model.Thread, *mast.TitleData, error) {
	front, rest, _ := util.SplitFrontMatter(md)

	info := &mast.TitleData{}
	var fm frontMatter
	if front != nil {
		if _, err := toml.Decode(string(front), info); err != nil {
			return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
		}
		if _, err := toml.Decode(string(front), &fm); err != nil {
			return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
		}
	}
	if info.Language == "" {
		info.Language = "en"
	}

	heading, sections := splitSections(rest)

	topic := strings.TrimSpace(fm.Title)
	if topic == "" {
		topic = heading
	}
	if topic == "" {
		return nil, nil, ErrNoTopic
	}

	tweets := fm.Tweets
	if len(tweets) == 0 {
		tweets = sections
	}
	if len(tweets) == 0 {
		return nil, nil, ErrNoTweets
	}
	if over := model.OverLimit(tweets); len(over) > 0 {
		return nil, nil, fmt.Errorf("%w: %d characters max, over at %v", ErrOverLimit, model.MaxTweetLength, over)
	}

	thread := &model.Thread{
		ID:        model.ThreadID(fm.ID),
		Topic:     topic,
		Tweets:    tweets,
		CreatedAt: model.FromMillis(fm.Created),
		UpdatedAt: model.FromMillis(fm.Updated),
	}
	if thread.ID == "" {
		thread.ID = model.NewThreadID()
	}
	if thread.CreatedAt.IsZero() && !fm.Date.IsZero() {
		thread.CreatedAt = fm.Date.UTC()
	}
	if thread.UpdatedAt.IsZero() {
		thread.UpdatedAt = thread.CreatedAt
	}

	return thread, info, nil
}

// splitSections returns the first "# " heading and the text under each "## " heading.
func splitSections(body []byte) (string, []string) {
	var (
		heading  string
		sections []string
		current  *strings.Builder
	)

	flush := func() {
		if current != nil {
			sections = append(sections, strings.TrimSpace(current.String()))
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), len(body)+1)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "## "):
			flush()
			current = &strings.Builder{}
		case strings.HasPrefix(line, "# ") && heading == "" && current == nil:
			heading = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		case current != nil:
			current.WriteString(line)
			current.WriteByte('\n')
		}
	}
	flush()

	return heading, sections
}
