package main

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/auth"
	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/db"
	"github.com/debemdeboas/thread-drafts/internal/editor"
	"github.com/debemdeboas/thread-drafts/internal/logger"
	"github.com/debemdeboas/thread-drafts/internal/render"
	"github.com/debemdeboas/thread-drafts/internal/repository"
	"github.com/debemdeboas/thread-drafts/internal/server"
	"github.com/debemdeboas/thread-drafts/internal/sse"
	"github.com/debemdeboas/thread-drafts/internal/storage"
	"github.com/debemdeboas/thread-drafts/internal/view"
)

//go:embed static/* templates/*
var content embed.FS

func main() {
	envErr := godotenv.Load()

	configPath := os.Getenv(config.EnvConfigPath)
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}

	l := logger.New(cfg.Logging.Level)
	setLoggers(l)

	if envErr != nil {
		l.Debug().Err(envErr).Msg("No .env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, closeStorage, err := newApp(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to start")
	}
	defer closeStorage()

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	l.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Backend).Msg("Listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Fatal().Err(err).Msg("Server stopped")
	}
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(logger.Component(l, "config"))
	db.SetLogger(logger.Component(l, "db"))
	storage.SetLogger(logger.Component(l, "storage"))
	repository.SetLogger(logger.Component(l, "repository"))
	editor.SetLogger(logger.Component(l, "editor"))
	auth.SetLogger(logger.Component(l, "auth"))
	render.SetLogger(logger.Component(l, "render"))
	server.SetLogger(logger.Component(l, "server"))
}

// newApp opens the configured storage and builds the HTTP handler on top of it.
// The returned close function releases the storage.
func newApp(ctx context.Context, cfg *config.Config) (http.Handler, func() error, error) {
	backend, closeStorage, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	store := repository.NewThreadRepository(backend, cfg.Storage.Key)

	views := view.NewRegistry()
	compositions := editor.NewMemoryRepository(cfg.Editor.DefaultCTA)
	editorHandler := editor.NewHandler(compositions, store, views, cfg.Editor.DefaultCount)

	var gate *auth.PasswordGate
	if cfg.Gate.Enabled {
		gate = auth.NewPasswordGate(cfg.Gate)
	}

	s, err := server.New(server.Options{
		Store:   store,
		Editor:  editorHandler,
		Views:   views,
		Clients: sse.NewSSEClients(),
		Gate:    gate,
		Files:   content,
		Presets: cfg.Editor.Presets,
	})
	if err != nil {
		closeStorage()
		return nil, nil, err
	}

	return s.Handler(), closeStorage, nil
}
