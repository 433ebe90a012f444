package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/export"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/repository"
	"github.com/debemdeboas/thread-drafts/internal/session"
	"github.com/debemdeboas/thread-drafts/internal/util"
)

const maxImportSize = 1 << 20

func (s *Server) serveDelete(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())
	id := model.ThreadID(r.PathValue("id"))

	if err := s.store.Delete(r.Context(), id); err != nil {
		l.Error().Err(err).Str("thread_id", string(id)).Msg("Failed to delete thread")
		session.SetFlash(w, session.FlashError, fmt.Sprintf(config.ErrDeleteFailedFmt, err))
	} else {
		session.SetFlash(w, session.FlashSuccess, config.MsgDraftDeleted)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// lookup writes the error response itself when the thread cannot be read.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*model.Thread, bool) {
	thread, err := s.store.Get(r.Context(), model.ThreadID(r.PathValue("id")))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, config.ErrThreadNotFound, http.StatusNotFound)
		return nil, false
	case err != nil:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to read thread")
		http.Error(w, config.ErrInternalServer, http.StatusInternalServerError)
		return nil, false
	}
	return thread, true
}

// serveExport returns the thread as text, markdown or a standalone HTML page. The
// download query parameter turns it into an attachment.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request) {
	thread, ok := s.lookup(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	syntaxTheme := r.URL.Query().Get("style")
	if syntaxTheme == "" {
		syntaxTheme = s.syntaxTheme
	}

	content, ctype, err := export.Render(thread, format, syntaxTheme)
	switch {
	case errors.Is(err, export.ErrUnknownFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("format", format).Msg("Failed to export thread")
		http.Error(w, config.ErrInternalServer, http.StatusInternalServerError)
		return
	}

	etag := util.ETag(content)
	if r.Header.Get(config.HIfNoneMatch) == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.URL.Query().Has("download") {
		if format == "" {
			format = export.FormatText
		}
		w.Header().Set(config.HDisposition, fmt.Sprintf(`attachment; filename="%s.%s"`, thread.ID, format))
	}
	w.Header().Set(config.HCType, ctype)
	w.Header().Set(config.HETag, etag)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (s *Server) serveTweet(w http.ResponseWriter, r *http.Request) {
	thread, ok := s.lookup(w, r)
	if !ok {
		return
	}

	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	text, err := export.Tweet(thread, i)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set(config.HCType, config.CTypeText)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// serveImport reads an uploaded markdown export and saves it. A thread with the same id
// is replaced in place.
func (s *Server) serveImport(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())

	fail := func(err error) {
		l.Warn().Err(err).Msg("Import rejected")
		session.SetFlash(w, session.FlashError, fmt.Sprintf(config.ErrImportFailedFmt, err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		fail(err)
		return
	}
	defer file.Close()

	md, err := io.ReadAll(file)
	if err != nil {
		fail(err)
		return
	}

	thread, _, err := export.ParseMarkdown(md)
	if err != nil {
		fail(err)
		return
	}

	if err := s.store.Save(r.Context(), thread); err != nil {
		fail(err)
		return
	}

	l.Info().Str("thread_id", string(thread.ID)).Msg("Thread imported")
	session.SetFlash(w, session.FlashSuccess, config.MsgDraftImported)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
