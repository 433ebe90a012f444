// Package auth implements the shared-password gate in front of the whole site.
package auth

import (
	"net/http"

	"github.com/rs/zerolog"
)

type AuthProvider interface {
	// WithGate returns middleware that sends unauthenticated requests to the login page.
	WithGate() func(http.Handler) http.Handler

	IsAuthenticated(r *http.Request) bool
}

var authLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	authLogger = l
}
