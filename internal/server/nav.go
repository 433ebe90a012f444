package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/session"
	"github.com/debemdeboas/thread-drafts/internal/view"
)

type sessionFunc func(w http.ResponseWriter, r *http.Request, sid session.ID, ctrl *view.Controller)

// withSession resolves the session's controller and always ends on the page.
func (s *Server) withSession(next sessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := session.IDFromContext(r.Context())
		if !ok {
			zerolog.Ctx(r.Context()).Error().Msg("Navigation without session")
			http.Error(w, config.ErrInternalServer, http.StatusInternalServerError)
			return
		}

		next(w, r, sid, s.views.For(sid))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func logRejected(r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Debug().Err(err).Msg("Navigation rejected")
}

func (s *Server) navNew(w http.ResponseWriter, r *http.Request, sid session.ID, ctrl *view.Controller) {
	if err := ctrl.New(); err != nil {
		logRejected(r, err)
		return
	}
	s.editor.BeginNew(sid)
}

func (s *Server) navOpen(w http.ResponseWriter, r *http.Request, _ session.ID, ctrl *view.Controller) {
	if err := ctrl.Open(model.ThreadID(r.PathValue("id"))); err != nil {
		logRejected(r, err)
	}
}

// navEdit enters the editor with a fresh copy of the saved thread. A missing thread still
// enters Edit so the page shows the not found screen.
func (s *Server) navEdit(w http.ResponseWriter, r *http.Request, sid session.ID, ctrl *view.Controller) {
	id := model.ThreadID(r.PathValue("id"))
	if err := ctrl.EditRequested(id); err != nil {
		logRejected(r, err)
		return
	}

	thread, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.editor.Discard(sid)
		return
	}
	s.editor.BeginEdit(sid, thread)
}

// navBack leaves the current screen. Leaving the editor drops unsaved work.
func (s *Server) navBack(w http.ResponseWriter, r *http.Request, sid session.ID, ctrl *view.Controller) {
	prev := ctrl.State().Screen
	if err := ctrl.Back(); err != nil {
		logRejected(r, err)
		return
	}
	if prev == view.New || prev == view.Edit {
		s.editor.Discard(sid)
	}
}

func (s *Server) navList(w http.ResponseWriter, r *http.Request, sid session.ID, ctrl *view.Controller) {
	ctrl.BackToList()
	s.editor.Discard(sid)
}
