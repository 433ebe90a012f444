package util

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/gomarkdown/markdown"
	"github.com/mmarkdown/mmark/v2/mast"
)

var ErrNoFrontMatter = errors.New("invalid front matter format")

var frontMatterDelimiter = []byte("%%%")

type ExtendedTitleData struct {
	*mast.TitleData
	Consumed int
}

// SplitFrontMatter separates a leading %%% TOML block from the rest of the document.
// The returned body starts right after the closing delimiter line.
func SplitFrontMatter(md []byte) (front, body []byte, err error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	if !bytes.HasPrefix(md, frontMatterDelimiter) {
		return nil, md, ErrNoFrontMatter
	}

	rest := md[len(frontMatterDelimiter):]
	if len(rest) == 0 || rest[0] != '\n' {
		return nil, md, ErrNoFrontMatter
	}
	rest = rest[1:]

	var end int
	switch {
	case bytes.HasPrefix(rest, frontMatterDelimiter):
		end = 0
	default:
		idx := bytes.Index(rest, append([]byte("\n"), frontMatterDelimiter...))
		if idx == -1 {
			return nil, md, ErrNoFrontMatter
		}
		end = idx + 1
	}

	front = rest[:end]
	body = rest[end+len(frontMatterDelimiter):]
	body = bytes.TrimLeft(body, "\n")
	return front, body, nil
}

// GetFrontMatter decodes the title block into mmark title data. Consumed is the number of
// bytes of the normalized document taken up by the block.
func GetFrontMatter(md []byte) (*ExtendedTitleData, error) {
	normalized := bytes.TrimLeft(markdown.NormalizeNewlines(md), "\n \t\r")

	front, body, err := SplitFrontMatter(normalized)
	if err != nil {
		return nil, err
	}

	info := &ExtendedTitleData{
		TitleData: &mast.TitleData{},
	}
	if _, err := toml.Decode(string(front), info.TitleData); err != nil {
		return nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	if info.Language == "" {
		info.Language = "en"
	}
	info.Consumed = len(normalized) - len(body)

	return info, nil
}
