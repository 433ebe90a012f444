// Command threads manages the saved thread drafts from the terminal, against the same
// storage the web app uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/export"
	"github.com/debemdeboas/thread-drafts/internal/logger"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/render"
	"github.com/debemdeboas/thread-drafts/internal/repository"
	"github.com/debemdeboas/thread-drafts/internal/storage"
)

const usage = `usage: threads <command> [arguments]

commands:
  list                          list saved drafts
  show <id>                     print one draft
  export [-format f] [-o file] <id>
                                export a draft as txt, md or html
  import <file.md>...           import markdown exports
  delete <id>                   delete a draft
`

var errUsage = errors.New("invalid usage")

func main() {
	godotenv.Load()

	configPath := os.Getenv(config.EnvConfigPath)
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	l := logger.New("warn")
	config.SetLogger(l)
	storage.SetLogger(l)
	repository.SetLogger(l)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()
	backend, closeStorage, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		l.Fatal().Err(err).Msgf(config.ErrOpenStorageFmt, err)
	}
	defer closeStorage()

	store := repository.NewThreadRepository(backend, cfg.Storage.Key)

	if err := run(ctx, os.Args[1:], store, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		} else {
			fmt.Fprintln(os.Stderr, overStyle.Render("error: "+err.Error()))
		}
		closeStorage()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, store repository.ThreadStore, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		fmt.Fprint(out, formatList(store.List(ctx)))
		return nil
	case "show":
		if len(rest) != 1 {
			return errUsage
		}
		thread, err := store.Get(ctx, model.ThreadID(rest[0]))
		if err != nil {
			return err
		}
		fmt.Fprint(out, formatThread(thread))
		return nil
	case "export":
		return runExport(ctx, rest, store, out)
	case "import":
		if len(rest) == 0 {
			return errUsage
		}
		return runImport(ctx, rest, store, out)
	case "delete", "rm":
		if len(rest) != 1 {
			return errUsage
		}
		id := model.ThreadID(rest[0])
		if _, err := store.Get(ctx, id); err != nil {
			return err
		}
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(out, okStyle.Render(config.MsgDraftDeleted))
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func runExport(ctx context.Context, args []string, store repository.ThreadStore, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	format := fs.String("format", export.FormatText, "txt, md or html")
	output := fs.String("o", "", "write to file instead of stdout")
	style := fs.String("style", render.DefaultSyntaxTheme, "syntax highlighting style for html")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}

	thread, err := store.Get(ctx, model.ThreadID(fs.Arg(0)))
	if err != nil {
		return err
	}

	content, _, err := export.Render(thread, *format, *style)
	if err != nil {
		return err
	}

	if *output == "" {
		_, err = out.Write(content)
		return err
	}
	if err := os.WriteFile(*output, content, 0644); err != nil {
		return err
	}
	fmt.Fprintln(out, okStyle.Render("Exported to "+*output))
	return nil
}

func runImport(ctx context.Context, files []string, store repository.ThreadStore, out io.Writer) error {
	var failed int
	for _, path := range files {
		md, err := os.ReadFile(path)
		if err == nil {
			var thread *model.Thread
			thread, _, err = export.ParseMarkdown(md)
			if err == nil {
				err = store.Save(ctx, thread)
			}
			if err == nil {
				fmt.Fprintf(out, "%s %s %s\n", okStyle.Render("imported"), titleStyle.Render(thread.Topic), idStyle.Render(string(thread.ID)))
				continue
			}
		}

		failed++
		fmt.Fprintf(out, "%s %s: %v\n", overStyle.Render("failed"), path, err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(files))
	}
	return nil
}

func formatList(threads []model.Thread) string {
	if len(threads) == 0 {
		return mutedStyle.Render("No drafts yet.") + "\n"
	}

	var sb strings.Builder
	for _, t := range threads {
		sb.WriteString(titleStyle.Render(t.Topic))
		sb.WriteString(" ")
		sb.WriteString(idStyle.Render(string(t.ID)))
		sb.WriteString("\n")

		meta := strconv.Itoa(len(t.Tweets)) + " tweets"
		if !t.UpdatedAt.IsZero() {
			meta += " · updated " + t.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		sb.WriteString("  " + mutedStyle.Render(meta) + "\n")
	}
	return sb.String()
}

func formatThread(t *model.Thread) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(t.Topic) + " " + idStyle.Render(string(t.ID)) + "\n\n")

	for i, tweet := range t.Tweets {
		n := model.TweetLength(tweet)
		counter := mutedStyle.Render(fmt.Sprintf("%d/%d", n, model.MaxTweetLength))
		if model.IsOverLimit(tweet) {
			counter = overStyle.Render(fmt.Sprintf("%d/%d", n, model.MaxTweetLength))
		}

		sb.WriteString(labelStyle.Render(t.Label(i)) + counter + "\n")
		sb.WriteString(tweetStyle.Render(tweet) + "\n")
	}
	return sb.String()
}
