// Package theme handles the light/dark page theme stored in a cookie.
package theme

import (
	"net/http"

	"github.com/debemdeboas/thread-drafts/internal/config"
)

func DefaultTheme() string {
	if config.AppConfig != nil && isKnown(config.AppConfig.Site.Theme) {
		return config.AppConfig.Site.Theme
	}
	return config.DefaultTheme
}

func GetThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil && isKnown(cookie.Value) {
		return cookie.Value
	}
	return DefaultTheme()
}

// Opposite returns the theme the toggle switches to.
func Opposite(theme string) string {
	if theme == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

func GetThemeIcon(theme string) string {
	if theme == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}

// ToggleHandler flips the theme cookie and sends the browser back to where it came from.
func ToggleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    Opposite(GetThemeFromRequest(r)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func isKnown(theme string) bool {
	return theme == config.LightTheme || theme == config.DarkTheme
}
