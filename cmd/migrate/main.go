// Command migrate moves thread drafts between storage backends, imports a directory of
// markdown exports and repairs missing timestamps.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/logger"
	"github.com/debemdeboas/thread-drafts/internal/repository"
	"github.com/debemdeboas/thread-drafts/internal/storage"
)

func main() {
	to := flag.String("to", "", "Copy the configured collection into this backend (memory, file, sqlite, s3)")
	toCompression := flag.String("to-compression", "", "Compression for the target backend (defaults to the configured one)")
	dir := flag.String("dir", "", "Import every .md export in this directory")
	fix := flag.Bool("fix-times", false, "Fill in missing created/updated timestamps")
	flag.Parse()

	godotenv.Load()

	l := logger.New("info")
	config.SetLogger(l)
	storage.SetLogger(l)
	repository.SetLogger(l)

	if *to == "" && *dir == "" && !*fix {
		l.Fatal().Msg("Nothing to do: pass --to, --dir or --fix-times")
	}

	configPath := os.Getenv(config.EnvConfigPath)
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := l.WithContext(context.Background())

	source, closeSource, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		l.Fatal().Err(err).Msgf(config.ErrOpenStorageFmt, err)
	}
	defer closeSource()

	store := repository.NewThreadRepository(source, cfg.Storage.Key)

	if *dir != "" {
		n, err := importDir(ctx, *dir, store)
		if err != nil {
			l.Fatal().Err(err).Str("dir", *dir).Msg("Import failed")
		}
		l.Info().Int("threads", n).Str("dir", *dir).Msg("Imported markdown exports")
	}

	if *fix {
		n, err := fixTimes(ctx, store, time.Now())
		if err != nil {
			l.Fatal().Err(err).Msg("Fixing timestamps failed")
		}
		l.Info().Int("threads", n).Msg("Fixed timestamps")
	}

	if *to != "" {
		targetCfg := cfg.Storage
		targetCfg.Backend = *to
		if *toCompression != "" {
			targetCfg.Compression = *toCompression
		}

		target, closeTarget, err := storage.Open(ctx, targetCfg)
		if err != nil {
			l.Fatal().Err(err).Msgf(config.ErrOpenStorageFmt, err)
		}
		defer closeTarget()

		n, err := copyCollection(ctx, source, target, cfg.Storage.Key)
		if err != nil {
			l.Fatal().Err(err).Msg("Copy failed")
		}
		l.Info().
			Int("threads", n).
			Str("from", cfg.Storage.Backend).
			Str("to", *to).
			Msg("Copied thread collection")
	}
}
