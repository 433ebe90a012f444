package main

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debemdeboas/thread-drafts/internal/config"
)

func TestEmbeddedContent(t *testing.T) {
	files := []string{
		config.TemplatesLocalDir + "/" + config.TemplateLayout,
		config.TemplatesLocalDir + "/" + config.TemplateList,
		config.TemplatesLocalDir + "/" + config.TemplateEditor,
		config.TemplatesLocalDir + "/" + config.TemplateView,
		config.TemplatesLocalDir + "/" + config.TemplateNotFound,
		config.TemplatesLocalDir + "/" + config.TemplateLogin,
		config.StaticLocalDir + "/style.css",
		config.StaticLocalDir + "/app.js",
	}

	for _, name := range files {
		if _, err := fs.Stat(content, name); err != nil {
			t.Errorf("Expected %s to be embedded: %v", name, err)
		}
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.Backend = "memory"
	return cfg
}

func TestNewApp(t *testing.T) {
	t.Run("Open site", func(t *testing.T) {
		cfg := testConfig()
		cfg.Gate.Enabled = false

		handler, closeFn, err := newApp(context.Background(), cfg)
		if err != nil {
			t.Fatalf("newApp failed: %v", err)
		}
		defer closeFn()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		res := rec.Result()
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200 OK, got %d", res.StatusCode)
		}

		body, _ := io.ReadAll(res.Body)
		if !strings.Contains(string(body), cfg.Site.Name) {
			t.Errorf("Expected body to contain site name, got %s", body)
		}
	})

	t.Run("Gated site", func(t *testing.T) {
		handler, closeFn, err := newApp(context.Background(), testConfig())
		if err != nil {
			t.Fatalf("newApp failed: %v", err)
		}
		defer closeFn()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("Expected status %d, got %d", http.StatusSeeOther, rec.Code)
		}
		if loc := rec.Header().Get(config.HLocation); loc != config.LoginUrlPath {
			t.Errorf("Expected redirect to %s, got %s", config.LoginUrlPath, loc)
		}
	})

	t.Run("Unknown backend", func(t *testing.T) {
		cfg := testConfig()
		cfg.Storage.Backend = "floppy"

		if _, _, err := newApp(context.Background(), cfg); err == nil {
			t.Error("Expected error for unknown storage backend")
		}
	})
}
