// Package hub keeps a process-wide snapshot of the memory collection and
// broadcasts it to registered listeners after every mutation. It is a thin
// cache over store.Store; the store stays the single source of truth.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mapmemories/mapmemories/internal/model"
	"github.com/mapmemories/mapmemories/internal/store"
)

// Listener receives the latest memory snapshot after each refresh.
type Listener func(memories []*model.Memory)

// Hub caches the last-known memory collection. One instance normally lives
// for the whole process; tests construct a fresh one per run.
type Hub struct {
	store store.Store
	log   zerolog.Logger

	mu       sync.RWMutex
	memories []*model.Memory
	hydrated bool
	subs     map[int]Listener
	nextSub  int
}

func New(st store.Store, log zerolog.Logger) *Hub {
	return &Hub{store: st, log: log, subs: make(map[int]Listener)}
}

// Snapshot returns the cached collection. It may be stale until Hydrate has
// run.
func (h *Hub) Snapshot() []*model.Memory {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.memories
}

// Hydrated reports whether an initial load has completed.
func (h *Hub) Hydrated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hydrated
}

// Subscribe registers a listener and returns a cancel func. The listener is
// invoked with the current snapshot immediately if the hub is hydrated.
func (h *Hub) Subscribe(fn Listener) (cancel func()) {
	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	snapshot, hydrated := h.memories, h.hydrated
	h.mu.Unlock()

	if hydrated {
		fn(snapshot)
	}
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Hydrate loads the collection from the store and broadcasts it.
func (h *Hub) Hydrate(ctx context.Context) error {
	return h.refresh(ctx)
}

// Upsert writes the memory (refreshing updatedAt) and re-reads the
// collection.
func (h *Hub) Upsert(ctx context.Context, m *model.Memory) error {
	m.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := h.store.Memories().Upsert(ctx, m); err != nil {
		h.log.Error().Err(err).Str("id", m.ID).Msg("failed to upsert memory")
		return err
	}
	return h.refresh(ctx)
}

// Remove deletes the memory (and, through the store, its media) and
// re-reads the collection.
func (h *Hub) Remove(ctx context.Context, id string) error {
	if err := h.store.Memories().Delete(ctx, id); err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("failed to delete memory")
		return err
	}
	return h.refresh(ctx)
}

// SetTrack attaches a track to an existing memory. Returns
// model.ErrNotFound when the memory does not exist.
func (h *Hub) SetTrack(ctx context.Context, id string, track model.Track) error {
	m, err := h.lookup(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		h.log.Warn().Str("id", id).Msg("cannot attach track; memory not found")
		return model.ErrNotFound
	}
	updated := *m
	updated.Track = &track
	return h.Upsert(ctx, &updated)
}

// RemoveTrack detaches the track, if any, from an existing memory.
func (h *Hub) RemoveTrack(ctx context.Context, id string) error {
	m, err := h.lookup(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		h.log.Warn().Str("id", id).Msg("cannot remove track; memory not found")
		return model.ErrNotFound
	}
	updated := *m
	updated.Track = nil
	return h.Upsert(ctx, &updated)
}

// lookup prefers the store and falls back to the cached snapshot.
func (h *Hub) lookup(ctx context.Context, id string) (*model.Memory, error) {
	m, err := h.store.Memories().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return m, nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, cached := range h.memories {
		if cached.ID == id {
			return cached, nil
		}
	}
	return nil, nil
}

func (h *Hub) refresh(ctx context.Context) error {
	data, err := h.store.Memories().List(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to refresh memories")
		return err
	}

	h.mu.Lock()
	h.memories = data
	h.hydrated = true
	listeners := make([]Listener, 0, len(h.subs))
	for _, fn := range h.subs {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(data)
	}
	return nil
}
