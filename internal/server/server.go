// Package server wires the HTTP surface: the single page at "/", the navigation and
// thread intents, the event stream and the middleware chain around them.
package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/auth"
	"github.com/debemdeboas/thread-drafts/internal/cache"
	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/editor"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/render"
	"github.com/debemdeboas/thread-drafts/internal/repository"
	"github.com/debemdeboas/thread-drafts/internal/routes"
	"github.com/debemdeboas/thread-drafts/internal/session"
	"github.com/debemdeboas/thread-drafts/internal/sse"
	"github.com/debemdeboas/thread-drafts/internal/theme"
	"github.com/debemdeboas/thread-drafts/internal/util"
	"github.com/debemdeboas/thread-drafts/internal/view"
)

var serverLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	serverLogger = l
}

// Options collects what the server needs. Files must hold the templates and static
// directories; Gate may be nil for an open site.
type Options struct {
	Store   repository.ThreadStore
	Editor  *editor.Handler
	Views   *view.Registry
	Clients *sse.SSEClients
	Gate    *auth.PasswordGate
	Files   fs.FS

	Presets     []int
	SyntaxTheme string
}

type Server struct {
	store   repository.ThreadStore
	editor  *editor.Handler
	views   *view.Registry
	clients *sse.SSEClients
	gate    *auth.PasswordGate
	files   fs.FS
	static  fs.FS

	pages map[string]*template.Template

	presets     []int
	syntaxTheme string
}

func New(opts Options) (*Server, error) {
	s := &Server{
		store:       opts.Store,
		editor:      opts.Editor,
		views:       opts.Views,
		clients:     opts.Clients,
		gate:        opts.Gate,
		files:       opts.Files,
		presets:     opts.Presets,
		syntaxTheme: opts.SyntaxTheme,
		pages:       make(map[string]*template.Template),
	}
	if s.clients == nil {
		s.clients = sse.NewSSEClients()
	}
	if s.syntaxTheme == "" {
		s.syntaxTheme = render.DefaultSyntaxTheme
	}

	for _, page := range []string{config.TemplateList, config.TemplateEditor, config.TemplateView, config.TemplateNotFound} {
		tmpl, err := template.ParseFS(
			opts.Files,
			config.TemplatesLocalDir+"/"+config.TemplateLayout,
			config.TemplatesLocalDir+"/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("error loading template %s: %w", page, err)
		}
		s.pages[page] = tmpl
	}

	static, err := fs.Sub(opts.Files, config.StaticLocalDir)
	if err != nil {
		return nil, fmt.Errorf("error opening static files: %w", err)
	}
	s.static = static
	hashStatic(static)

	s.store.SetChangeNotifier(s.handleThreadChanged)

	return s, nil
}

// hashStatic records an ETag for every embedded static file.
func hashStatic(static fs.FS) {
	fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			serverLogger.Warn().Err(err).Str("path", path).Msg("Failed to hash static file")
			return nil
		}
		cache.SetStaticHash(config.StaticUrlPath+path, util.ETag(data))
		return nil
	})
}

// Handler builds the mux and wraps it in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(routes.Robots, serveRobots)
	mux.Handle(routes.Static, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(s.static))))
	mux.HandleFunc(routes.ThemeToggle, theme.ToggleHandler)
	mux.HandleFunc(routes.SSE, s.serveEvents)
	mux.HandleFunc(routes.Root, s.serveRoot)

	mux.HandleFunc(routes.NavNew, s.withSession(s.navNew))
	mux.HandleFunc(routes.NavOpen, s.withSession(s.navOpen))
	mux.HandleFunc(routes.NavEdit, s.withSession(s.navEdit))
	mux.HandleFunc(routes.NavBack, s.withSession(s.navBack))
	mux.HandleFunc(routes.NavList, s.withSession(s.navList))

	mux.HandleFunc(routes.ThreadDelete, s.serveDelete)
	mux.HandleFunc(routes.ThreadExport, s.serveExport)
	mux.HandleFunc(routes.ThreadTweet, s.serveTweet)
	mux.HandleFunc(routes.ThreadImport, s.serveImport)

	s.editor.Register(mux)

	var h http.Handler = mux
	if s.gate != nil {
		auth.RegisterGateRoutes(mux, s.gate, s.files)
		h = s.gate.WithGate()(h)
	}

	return cacheIt(requestLogger(serverLogger)(secureHeaders(session.Middleware(h))))
}

func (s *Server) handleThreadChanged(id model.ThreadID) {
	go s.clients.Broadcast(id, "reload")
}

func serveRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, config.CTypeText)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("User-agent: *\nDisallow: /"))
}
