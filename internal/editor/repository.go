package editor

import (
	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/session"
)

// Repository keeps one composition per browser session.
type Repository interface {
	// GetOrCreate returns the session's composition, creating an empty one on first use.
	GetOrCreate(id session.ID) *Composition
	Get(id session.ID) (*Composition, bool)
	Delete(id session.ID)
}

var editorLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}
