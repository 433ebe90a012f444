package model

import (
	"net/http"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/session"
	"github.com/debemdeboas/thread-drafts/internal/theme"
)

// PageData is what the layout template needs on every page.
type PageData struct {
	SiteName string
	Tagline  string

	PageURL string

	Theme     string
	ThemeIcon string

	Flash *session.Flash

	MaxTweetLength int
}

// NewPageData collects the layout data for r. It consumes any pending flash message.
func NewPageData(w http.ResponseWriter, r *http.Request) *PageData {
	pd := &PageData{
		SiteName:       "Thread Drafts",
		PageURL:        r.URL.Path,
		Theme:          theme.GetThemeFromRequest(r),
		Flash:          session.PopFlash(w, r),
		MaxTweetLength: MaxTweetLength,
	}
	pd.ThemeIcon = theme.GetThemeIcon(pd.Theme)

	if config.AppConfig != nil {
		pd.SiteName = config.AppConfig.Site.Name
		pd.Tagline = config.AppConfig.Site.Tagline
	}

	return pd
}

func (pd *PageData) HasFlash() bool {
	return pd.Flash != nil
}
