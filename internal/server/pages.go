package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/editor"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/repository"
	"github.com/debemdeboas/thread-drafts/internal/session"
	"github.com/debemdeboas/thread-drafts/internal/view"
)

const dateFormat = "2006-01-02 15:04"

// tweetView is one post as the templates show it.
type tweetView struct {
	Index  int
	Label  string
	Text   string
	Length int
	Over   bool
	First  bool
	Last   bool
	Prev   int
	Next   int
}

func tweetViews(tweets []string) []tweetView {
	views := make([]tweetView, len(tweets))
	for i, text := range tweets {
		views[i] = tweetView{
			Index:  i,
			Label:  model.SlotLabel(i, len(tweets)),
			Text:   text,
			Length: model.TweetLength(text),
			Over:   model.IsOverLimit(text),
			First:  i == 0,
			Last:   i == len(tweets)-1,
			Prev:   i - 1,
			Next:   i + 1,
		}
	}
	return views
}

type threadSummary struct {
	ID      model.ThreadID
	Topic   string
	Hook    string
	Count   int
	Updated string
}

// serveRoot renders whichever screen the session is on.
func (s *Server) serveRoot(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		zerolog.Ctx(r.Context()).Error().Msg("Page request without session")
		http.Error(w, config.ErrInternalServer, http.StatusInternalServerError)
		return
	}

	state := s.views.For(sid).State()
	switch state.Screen {
	case view.New, view.Edit:
		s.renderEditor(w, r, sid, state)
	case view.View:
		s.renderThread(w, r, state.ID)
	default:
		s.renderList(w, r)
	}
}

func (s *Server) renderList(w http.ResponseWriter, r *http.Request) {
	threads := s.store.List(r.Context())

	summaries := make([]threadSummary, len(threads))
	for i, t := range threads {
		summaries[i] = threadSummary{
			ID:      t.ID,
			Topic:   t.Topic,
			Hook:    t.Hook(),
			Count:   len(t.Tweets),
			Updated: formatDate(t.UpdatedAt),
		}
	}

	data := struct {
		*model.PageData
		Threads []threadSummary
	}{
		PageData: model.NewPageData(w, r),
		Threads:  summaries,
	}

	s.render(w, r, http.StatusOK, config.TemplateList, data)
}

type editorData struct {
	*model.PageData
	IsEdit    bool
	Started   bool
	ThreadID  model.ThreadID
	Topic     string
	Tweets    []tweetView
	CanRemove bool
	OverLimit bool
	Presets   []int
	MinSlots  int
}

func (s *Server) renderEditor(w http.ResponseWriter, r *http.Request, sid session.ID, state view.State) {
	snapshot := func() editorData {
		c := s.editor.Composition(sid)
		c.Lock()
		defer c.Unlock()

		tweets := tweetViews(c.Tweets())
		over := false
		for _, t := range tweets {
			over = over || t.Over
		}
		return editorData{
			IsEdit:    state.Screen == view.Edit,
			Started:   c.Started(),
			ThreadID:  c.ThreadID(),
			Topic:     c.Topic(),
			Tweets:    tweets,
			CanRemove: c.Len() > editor.MinSlots,
			OverLimit: over,
		}
	}

	data := snapshot()

	// The composition is gone (restart, discarded session): reload the saved thread.
	if state.Screen == view.Edit && !data.Started {
		thread, err := s.store.Get(r.Context(), state.ID)
		if err != nil {
			s.renderNotFound(w, r, state.ID, err)
			return
		}
		s.editor.BeginEdit(sid, thread)
		data = snapshot()
	}

	data.PageData = model.NewPageData(w, r)
	data.Presets = s.presets
	data.MinSlots = editor.MinSlots

	s.render(w, r, http.StatusOK, config.TemplateEditor, data)
}

func (s *Server) renderThread(w http.ResponseWriter, r *http.Request, id model.ThreadID) {
	thread, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.renderNotFound(w, r, id, err)
		return
	}

	data := struct {
		*model.PageData
		Thread  *model.Thread
		Tweets  []tweetView
		Created string
		Updated string
	}{
		PageData: model.NewPageData(w, r),
		Thread:   thread,
		Tweets:   tweetViews(thread.Tweets),
		Created:  formatDate(thread.CreatedAt),
		Updated:  formatDate(thread.UpdatedAt),
	}

	s.render(w, r, http.StatusOK, config.TemplateView, data)
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, id model.ThreadID, err error) {
	l := zerolog.Ctx(r.Context())
	if errors.Is(err, repository.ErrNotFound) {
		l.Info().Str("thread_id", string(id)).Msg("Thread not found")
	} else {
		l.Error().Err(err).Str("thread_id", string(id)).Msg("Failed to read thread")
	}

	data := struct {
		*model.PageData
		ID model.ThreadID
	}{
		PageData: model.NewPageData(w, r),
		ID:       id,
	}

	s.render(w, r, http.StatusNotFound, config.TemplateNotFound, data)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, config.TemplateLayout, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", page).Msg("Failed to render template")
		http.Error(w, config.ErrInternalServer, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML+"; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateFormat)
}
