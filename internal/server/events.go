package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/sse"
)

// serveEvents streams "reload" messages for the thread named in the query, or for every
// thread when none is given.
func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())
	threadID := model.ThreadID(r.URL.Query().Get("thread"))

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeEvents)
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")

	client := &sse.Client{
		Msg:      make(chan string, 1),
		ThreadID: threadID,
	}
	s.clients.Add(client)
	l.Debug().Str("thread_id", string(threadID)).Msg("SSE client connected")

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	defer func() {
		s.clients.Delete(client)
		l.Debug().Msg("SSE client disconnected")
	}()

	notify := r.Context().Done()
	for {
		select {
		case msg := <-client.Msg:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}
