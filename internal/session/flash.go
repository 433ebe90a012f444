package session

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/debemdeboas/thread-drafts/internal/config"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot toast shown on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Message string
}

const flashMaxAge = 30

func SetFlash(w http.ResponseWriter, kind FlashKind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieFlash,
		Value:    url.QueryEscape(string(kind) + ":" + message),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads the pending flash, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(config.CookieFlash)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:   config.CookieFlash,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}

	kind, message, ok := strings.Cut(raw, ":")
	if !ok || message == "" {
		return nil
	}

	switch FlashKind(kind) {
	case FlashSuccess, FlashError:
		return &Flash{Kind: FlashKind(kind), Message: message}
	default:
		return nil
	}
}
