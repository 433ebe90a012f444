package view

import (
	"github.com/debemdeboas/thread-drafts/internal/cache"
	"github.com/debemdeboas/thread-drafts/internal/session"
)

// Registry hands out one controller per session.
type Registry struct {
	controllers *cache.Cache[session.ID, *Controller]
}

func NewRegistry() *Registry {
	return &Registry{controllers: cache.NewCache[session.ID, *Controller]()}
}

func (r *Registry) For(id session.ID) *Controller {
	return r.controllers.GetOrSet(id, NewController)
}

func (r *Registry) Forget(id session.ID) {
	r.controllers.Delete(id)
}
