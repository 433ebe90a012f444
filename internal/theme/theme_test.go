package theme

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/debemdeboas/thread-drafts/internal/config"
)

func setupMockConfig(theme string) {
	config.AppConfig = &config.Config{
		Site: config.SiteConfig{Theme: theme},
	}
}

func TestGetThemeFromRequest(t *testing.T) {
	setupMockConfig(config.LightTheme)
	defer func() { config.AppConfig = nil }()

	testCases := []struct {
		name          string
		cookieValue   string
		hasCookie     bool
		expectedTheme string
	}{
		{
			name:          "No cookie - use configured default",
			expectedTheme: config.LightTheme,
		},
		{
			name:          "Dark theme cookie",
			cookieValue:   config.DarkTheme,
			hasCookie:     true,
			expectedTheme: config.DarkTheme,
		},
		{
			name:          "Unknown cookie value falls back",
			cookieValue:   "solarized",
			hasCookie:     true,
			expectedTheme: config.LightTheme,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.hasCookie {
				req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: tc.cookieValue})
			}

			theme := GetThemeFromRequest(req)
			if theme != tc.expectedTheme {
				t.Errorf("Expected theme %s, got %s", tc.expectedTheme, theme)
			}
		})
	}
}

func TestDefaultTheme(t *testing.T) {
	t.Run("No config", func(t *testing.T) {
		config.AppConfig = nil
		if got := DefaultTheme(); got != config.DefaultTheme {
			t.Errorf("Expected %s, got %s", config.DefaultTheme, got)
		}
	})

	t.Run("Invalid configured theme", func(t *testing.T) {
		setupMockConfig("neon")
		defer func() { config.AppConfig = nil }()

		if got := DefaultTheme(); got != config.DefaultTheme {
			t.Errorf("Expected %s, got %s", config.DefaultTheme, got)
		}
	})
}

func TestGetThemeIcon(t *testing.T) {
	testCases := []struct {
		name         string
		theme        string
		expectedIcon string
	}{
		{"Light theme returns dark icon", config.LightTheme, config.DarkThemeIcon},
		{"Dark theme returns light icon", config.DarkTheme, config.LightThemeIcon},
		{"Unknown theme returns light icon", "unknown", config.LightThemeIcon},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if icon := GetThemeIcon(tc.theme); icon != tc.expectedIcon {
				t.Errorf("Expected icon %s, got %s", tc.expectedIcon, icon)
			}
		})
	}
}

func TestToggleHandler(t *testing.T) {
	config.AppConfig = nil

	t.Run("Flips dark to light", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
		req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: config.DarkTheme})
		w := httptest.NewRecorder()

		ToggleHandler(w, req)

		if w.Code != http.StatusSeeOther {
			t.Errorf("Expected status %d, got %d", http.StatusSeeOther, w.Code)
		}

		cookies := w.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Value != config.LightTheme {
			t.Errorf("Expected light theme cookie, got %v", cookies)
		}
	})

	t.Run("Rejects GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/theme/toggle", nil)
		w := httptest.NewRecorder()

		ToggleHandler(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
		}
	})
}
