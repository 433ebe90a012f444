package editor

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/repository"
	"github.com/debemdeboas/thread-drafts/internal/routes"
	"github.com/debemdeboas/thread-drafts/internal/session"
	"github.com/debemdeboas/thread-drafts/internal/view"
)

// Handler serves the editor intents. Every intent is a form post that also carries the
// current text of every slot, so typing is never lost when a button is pressed.
type Handler struct {
	repo  Repository
	store repository.ThreadStore
	views *view.Registry

	defaultCount int
	now          func() time.Time
}

func NewHandler(repo Repository, store repository.ThreadStore, views *view.Registry, defaultCount int) *Handler {
	return &Handler{
		repo:         repo,
		store:        store,
		views:        views,
		defaultCount: defaultCount,
		now:          time.Now,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(routes.EditorStart, h.withComposition(h.start))
	mux.HandleFunc(routes.EditorUpdate, h.withComposition(h.update))
	mux.HandleFunc(routes.EditorAdd, h.withComposition(h.add))
	mux.HandleFunc(routes.EditorRemove, h.withComposition(h.remove))
	mux.HandleFunc(routes.EditorMove, h.withComposition(h.move))
	mux.HandleFunc(routes.EditorSave, h.withComposition(h.save))
}

// BeginNew clears the session's composition for a brand new thread.
func (h *Handler) BeginNew(id session.ID) {
	c := h.repo.GetOrCreate(id)
	c.Lock()
	defer c.Unlock()
	c.Reset()
}

// BeginEdit loads a saved thread into the session's composition.
func (h *Handler) BeginEdit(id session.ID, thread *model.Thread) {
	c := h.repo.GetOrCreate(id)
	c.Lock()
	defer c.Unlock()
	c.Load(thread)
}

// Discard drops unsaved work.
func (h *Handler) Discard(id session.ID) {
	h.repo.Delete(id)
}

// Composition returns the session's composition for rendering. The caller must lock it.
func (h *Handler) Composition(id session.ID) *Composition {
	return h.repo.GetOrCreate(id)
}

type intentFunc func(w http.ResponseWriter, r *http.Request, sid session.ID, c *Composition)

func (h *Handler) withComposition(next intentFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := zerolog.Ctx(r.Context())

		sid, ok := session.IDFromContext(r.Context())
		if !ok {
			l.Error().Msg("Editor intent without session")
			http.Error(w, config.ErrInternalServer, http.StatusInternalServerError)
			return
		}

		if screen := h.views.For(sid).State().Screen; screen != view.New && screen != view.Edit {
			l.Debug().Stringer("screen", screen).Msg("Editor intent outside the editor")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c := h.repo.GetOrCreate(sid)
		c.Lock()
		defer c.Unlock()

		h.applyForm(r, c)
		next(w, r, sid, c)
	}
}

// applyForm copies the topic and slot texts posted with every intent.
func (h *Handler) applyForm(r *http.Request, c *Composition) {
	if topic, ok := r.PostForm["topic"]; ok && len(topic) > 0 {
		c.SetTopic(topic[0])
	}

	tweets, ok := r.PostForm["tweet"]
	if !ok || !c.Started() {
		return
	}
	if len(tweets) != c.Len() {
		zerolog.Ctx(r.Context()).Warn().
			Int("posted", len(tweets)).
			Int("slots", c.Len()).
			Msg("Ignoring stale editor form")
		return
	}
	for i, text := range tweets {
		c.UpdateAt(i, text)
	}
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request, _ session.ID, c *Composition) {
	count := h.defaultCount
	raw := r.FormValue("count")
	if raw == "" {
		raw = r.FormValue("custom")
	}
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid count", http.StatusBadRequest)
			return
		}
		count = n
	}

	if err := c.Initialize(r.FormValue("topic"), count); err != nil {
		session.SetFlash(w, session.FlashError, config.ErrEmptyTopic)
	}
	backToEditor(w, r)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, _ session.ID, _ *Composition) {
	backToEditor(w, r)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request, _ session.ID, c *Composition) {
	c.InsertBeforeLast()
	backToEditor(w, r)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, _ session.ID, c *Composition) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	if !c.RemoveAt(i) {
		zerolog.Ctx(r.Context()).Debug().Int("index", i).Int("slots", c.Len()).Msg("Removal rejected")
	}
	backToEditor(w, r)
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request, _ session.ID, c *Composition) {
	from, errFrom := strconv.Atoi(r.FormValue("from"))
	to, errTo := strconv.Atoi(r.FormValue("to"))
	if errFrom != nil || errTo != nil {
		http.Error(w, "invalid move", http.StatusBadRequest)
		return
	}

	c.MoveTo(from, to)
	backToEditor(w, r)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sid session.ID, c *Composition) {
	l := zerolog.Ctx(r.Context())

	thread, err := c.Build(h.now())
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrEmptyTopic):
		session.SetFlash(w, session.FlashError, config.ErrTopicRequired)
		backToEditor(w, r)
		return
	case errors.As(err, &verr):
		session.SetFlash(w, session.FlashError, fmt.Sprintf("%s (%s)", config.ErrOverLimit, labels(verr.OverLimit, c.Len())))
		backToEditor(w, r)
		return
	case errors.Is(err, ErrNotStarted):
		session.SetFlash(w, session.FlashError, config.ErrNotGenerated)
		backToEditor(w, r)
		return
	case err != nil:
		l.Error().Err(err).Msg("Failed to build thread")
		session.SetFlash(w, session.FlashError, fmt.Sprintf(config.ErrSaveFailedFmt, err))
		backToEditor(w, r)
		return
	}

	if err := h.store.Save(r.Context(), thread); err != nil {
		l.Error().Err(err).Str("thread", string(thread.ID)).Msg("Failed to save thread")
		session.SetFlash(w, session.FlashError, fmt.Sprintf(config.ErrSaveFailedFmt, err))
		backToEditor(w, r)
		return
	}

	msg := config.MsgDraftSaved
	if c.IsEdit() {
		msg = config.MsgDraftUpdated
	}

	if err := h.views.For(sid).Saved(thread.ID); err != nil {
		l.Warn().Err(err).Msg("Saved outside the editor")
	}
	c.Reset()

	l.Info().Str("thread", string(thread.ID)).Int("tweets", len(thread.Tweets)).Msg("Thread saved")
	session.SetFlash(w, session.FlashSuccess, msg)
	backToEditor(w, r)
}

func labels(indices []int, total int) string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = model.SlotLabel(idx, total)
	}
	return strings.Join(names, ", ")
}

func backToEditor(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
