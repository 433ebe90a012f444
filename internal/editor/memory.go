package editor

import (
	"sync"

	"github.com/debemdeboas/thread-drafts/internal/session"
)

type MemoryRepository struct {
	compositions sync.Map
	cta          string
}

// NewMemoryRepository creates a repository whose new compositions close with cta.
func NewMemoryRepository(cta string) *MemoryRepository {
	return &MemoryRepository{cta: cta}
}

func (m *MemoryRepository) GetOrCreate(id session.ID) *Composition {
	if c, ok := m.compositions.Load(id); ok {
		return c.(*Composition)
	}

	c, loaded := m.compositions.LoadOrStore(id, NewComposition(m.cta))
	if !loaded {
		editorLogger.Debug().Str("session", string(id)).Msg("Created composition")
	}
	return c.(*Composition)
}

func (m *MemoryRepository) Get(id session.ID) (*Composition, bool) {
	if c, ok := m.compositions.Load(id); ok {
		return c.(*Composition), true
	}
	return nil, false
}

func (m *MemoryRepository) Delete(id session.ID) {
	m.compositions.Delete(id)
}
