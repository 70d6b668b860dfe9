package hub

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapmemories/mapmemories/internal/model"
	"github.com/mapmemories/mapmemories/internal/store"
	"github.com/mapmemories/mapmemories/internal/store/sqlite"
)

func newTestHub(t *testing.T) (*Hub, store.Store) {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	st := sqlite.NewWithDB(db, zerolog.Nop())
	return New(st, zerolog.Nop()), st
}

func newMemory(id, happenedAt string) *model.Memory {
	return &model.Memory{
		ID:         id,
		CreatedAt:  "2024-06-01T00:00:00Z",
		HappenedAt: happenedAt,
		Latitude:   51.5,
		Longitude:  -0.12,
		UpdatedAt:  "2024-06-01T00:00:00Z",
	}
}

func TestHub_HydrateAndSnapshot(t *testing.T) {
	ctx := context.Background()
	h, st := newTestHub(t)

	require.NoError(t, st.Memories().Upsert(ctx, newMemory("m1", "2024-01-01T00:00:00Z")))

	assert.False(t, h.Hydrated())
	require.NoError(t, h.Hydrate(ctx))
	assert.True(t, h.Hydrated())
	require.Len(t, h.Snapshot(), 1)
}

func TestHub_UpsertBroadcastsAndRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	h, _ := newTestHub(t)

	var notified [][]*model.Memory
	cancel := h.Subscribe(func(memories []*model.Memory) {
		notified = append(notified, memories)
	})
	defer cancel()

	m := newMemory("m1", "2024-01-01T00:00:00Z")
	require.NoError(t, h.Upsert(ctx, m))

	require.Len(t, notified, 1)
	require.Len(t, notified[0], 1)
	assert.NotEqual(t, "2024-06-01T00:00:00Z", notified[0][0].UpdatedAt)
	// createdAt is immutable through the hub
	assert.Equal(t, "2024-06-01T00:00:00Z", notified[0][0].CreatedAt)
}

func TestHub_SubscribeAfterHydrateGetsImmediateSnapshot(t *testing.T) {
	ctx := context.Background()
	h, _ := newTestHub(t)
	require.NoError(t, h.Hydrate(ctx))

	called := false
	cancel := h.Subscribe(func(memories []*model.Memory) { called = true })
	defer cancel()
	assert.True(t, called)
}

func TestHub_SetAndRemoveTrack(t *testing.T) {
	ctx := context.Background()
	h, st := newTestHub(t)

	require.NoError(t, h.Upsert(ctx, newMemory("m1", "2024-01-01T00:00:00Z")))

	track := model.Track{ExternalID: "sp-9", Title: "Pyramid Song", Artist: "Radiohead"}
	require.NoError(t, h.SetTrack(ctx, "m1", track))

	got, err := st.Memories().GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got.Track)
	assert.Equal(t, "Pyramid Song", got.Track.Title)

	require.NoError(t, h.RemoveTrack(ctx, "m1"))
	got, err = st.Memories().GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got.Track)
}

func TestHub_SetTrackOnMissingMemory(t *testing.T) {
	ctx := context.Background()
	h, _ := newTestHub(t)

	err := h.SetTrack(ctx, "ghost", model.Track{ExternalID: "x", Title: "t", Artist: "a"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestHub_CancelStopsNotifications(t *testing.T) {
	ctx := context.Background()
	h, _ := newTestHub(t)

	count := 0
	cancel := h.Subscribe(func([]*model.Memory) { count++ })

	require.NoError(t, h.Upsert(ctx, newMemory("m1", "2024-01-01T00:00:00Z")))
	cancel()
	require.NoError(t, h.Upsert(ctx, newMemory("m2", "2024-02-01T00:00:00Z")))

	assert.Equal(t, 1, count)
}
