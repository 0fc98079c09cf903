package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ersonp/universe-core/internal/domain/entities"
)

// LiveRegistry holds at most one live entity per item id.
type LiveRegistry struct {
	mu   sync.RWMutex
	live map[uint32]entities.Entity
}

// NewLiveRegistry creates an empty registry.
func NewLiveRegistry() *LiveRegistry {
	return &LiveRegistry{live: make(map[uint32]entities.Entity)}
}

// Get returns the live entity for id, if any.
func (r *LiveRegistry) Get(id uint32) (entities.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.live[id]
	return e, ok
}

// Put registers e unless an entity is already live for its id, and returns
// the live one. replace forces e to become the live entity.
func (r *LiveRegistry) Put(e entities.Entity, replace bool) entities.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.live[e.ID()]; ok && !replace {
		return cur
	}
	r.live[e.ID()] = e
	return e
}

// Release drops the live entity for id. It reports whether one was live.
func (r *LiveRegistry) Release(id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[id]
	delete(r.live, id)
	return ok
}

// Len returns the number of live entities.
func (r *LiveRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

// Release drops the live entity for id from the factory's registry. Later
// loads of id build a new object. It reports whether an entity was live.
func (f *ItemFactory) Release(id uint32) bool {
	if f.live == nil {
		return false
	}
	return f.live.Release(id)
}

// Live returns the entity currently registered for id.
func (f *ItemFactory) Live(id uint32) (entities.Entity, bool) {
	if f.live == nil {
		return nil, false
	}
	return f.live.Get(id)
}

// shared coordinates loads of the same id. Concurrent bare-id loads of the
// same kind run the pipeline once and share the result. With a live registry,
// a registered entity of the requested kind is returned as is. Prefetched
// loads always run their own pipeline.
//
// The shared pipeline is detached from cancellation so one caller giving up
// cannot fail the others; each caller still stops waiting on its own ctx.
func (f *ItemFactory) shared(ctx context.Context, kind entities.Kind, id uint32, opts LoadOptions, load func(context.Context) (entities.Entity, error)) (entities.Entity, error) {
	if !opts.Prefetched.empty() {
		return load(ctx)
	}

	if f.live != nil {
		if e, ok := f.live.Get(id); ok && liveMatches(e, kind, opts.Recurse) {
			return e, nil
		}
	}

	key := fmt.Sprintf("%s:%d:%t", kind, id, opts.Recurse)
	flightCtx := context.WithoutCancel(ctx)
	ch := f.flight.DoChan(key, func() (any, error) {
		e, err := load(flightCtx)
		if err != nil {
			return nil, err
		}
		if f.live != nil {
			// A contents-loaded entity supersedes a shallow one.
			e = f.live.Put(e, opts.Recurse)
		}
		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(entities.Entity), nil
	}
}

func liveMatches(e entities.Entity, kind entities.Kind, recurse bool) bool {
	if recurse && !e.ContentsLoaded() {
		return false
	}
	return kind == entities.KindItem || e.Kind() == kind
}
