// Package session identifies browser sessions with a random cookie.
package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/config"
)

type ID string

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const ContextKeySessionID ContextKey = "sessionID"

func NewID() ID {
	return ID(uuid.New().String())
}

func ContextWithID(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, ContextKeySessionID, id)
}

func IDFromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(ContextKeySessionID).(ID)
	return id, ok && id != ""
}

// Middleware makes sure every request carries a session id, issuing a cookie on first visit.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id ID
		if cookie, err := r.Cookie(config.CookieSessionID); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				id = ID(cookie.Value)
			}
		}

		if id == "" {
			id = NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     config.CookieSessionID,
				Value:    string(id),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
			zerolog.Ctx(r.Context()).Debug().Str("session", string(id)).Msg("Issued session")
		}

		next.ServeHTTP(w, r.WithContext(ContextWithID(r.Context(), id)))
	})
}
