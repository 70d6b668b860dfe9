package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mapmemories/mapmemories/internal/model"
	"github.com/mapmemories/mapmemories/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db, zerolog.Nop())
}

func newMemory(id, happenedAt string, lat, lon float64) *model.Memory {
	return &model.Memory{
		ID:         id,
		CreatedAt:  "2024-06-01T00:00:00Z",
		HappenedAt: happenedAt,
		Latitude:   lat,
		Longitude:  lon,
		UpdatedAt:  "2024-06-01T00:00:00Z",
	}
}

func TestMemories_EndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := newMemory("mem-a", "2024-01-01T00:00:00Z", 51.5, -0.12)
	if err := s.Memories().Upsert(ctx, a); err != nil {
		t.Fatalf("upsert a: %v", err)
	}

	list, err := s.Memories().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "mem-a" {
		t.Fatalf("unexpected list: %+v", list)
	}

	// attach a track via full-record upsert
	a.Track = &model.Track{ExternalID: "sp-1", Title: "Sea Song", Artist: "Robert Wyatt"}
	if err := s.Memories().Upsert(ctx, a); err != nil {
		t.Fatalf("upsert track: %v", err)
	}
	got, err := s.Memories().GetByID(ctx, "mem-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Track == nil || got.Track.Title != "Sea Song" {
		t.Fatalf("expected attached track, got %+v", got)
	}

	b := newMemory("mem-b", "2023-01-01T00:00:00Z", 48.85, 2.35)
	if err := s.Memories().Upsert(ctx, b); err != nil {
		t.Fatalf("upsert b: %v", err)
	}
	list, err = s.Memories().List(ctx)
	if err != nil {
		t.Fatalf("list 2: %v", err)
	}
	if len(list) != 2 || list[0].ID != "mem-a" || list[1].ID != "mem-b" {
		t.Fatalf("expected newest-first [mem-a mem-b], got %+v", list)
	}

	if err := s.Memories().Delete(ctx, "mem-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err = s.Memories().List(ctx)
	if err != nil {
		t.Fatalf("list 3: %v", err)
	}
	if len(list) != 1 || list[0].ID != "mem-b" {
		t.Fatalf("expected [mem-b], got %+v", list)
	}
}

func TestMemories_GetByIDAbsentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.Memories().GetByID(ctx, "nope")
	if err != nil {
		t.Fatalf("get absent: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil memory, got %+v", got)
	}
}

func TestMemories_UpsertPersistsNoteBlocks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := newMemory("mem-n", "2024-02-01T00:00:00Z", 0, 0)
	m.NoteBlocks = []model.NoteBlock{
		{ID: "h1", Kind: model.BlockHeading, Text: "Notes "},
		{ID: "p1", Kind: model.BlockParagraph, Text: "   "},
		{ID: "d1", Kind: model.BlockDivider},
	}
	if err := s.Memories().Upsert(ctx, m); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Memories().GetByID(ctx, "mem-n")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// sanitation ran on the way in: trailing space trimmed, empty paragraph dropped
	if len(got.NoteBlocks) != 2 {
		t.Fatalf("expected 2 sanitized blocks, got %+v", got.NoteBlocks)
	}
	if got.NoteBlocks[0].Text != "Notes" || got.NoteBlocks[1].Kind != model.BlockDivider {
		t.Fatalf("unexpected blocks: %+v", got.NoteBlocks)
	}
}

func TestDelete_CascadesToMedia(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := newMemory("mem-c", "2024-03-01T00:00:00Z", 1, 2)
	if err := s.Memories().Upsert(ctx, m); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for i, created := range []string{"2024-03-01T01:00:00Z", "2024-03-01T02:00:00Z"} {
		item := &model.MemoryMedia{
			ID:        "med-" + string(rune('a'+i)),
			MemoryID:  "mem-c",
			Type:      model.MediaImage,
			URI:       "file:///photos/p.jpg",
			CreatedAt: created,
		}
		if err := s.Media().Add(ctx, item); err != nil {
			t.Fatalf("add media: %v", err)
		}
	}

	items, err := s.Media().ListByMemory(ctx, "mem-c")
	if err != nil {
		t.Fatalf("list media: %v", err)
	}
	if len(items) != 2 || items[0].ID != "med-b" {
		t.Fatalf("expected newest-first media, got %+v", items)
	}

	if err := s.Memories().Delete(ctx, "mem-c"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err = s.Media().ListByMemory(ctx, "mem-c")
	if err != nil {
		t.Fatalf("list media after delete: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no media after cascade, got %+v", items)
	}
	got, err := s.Memories().GetByID(ctx, "mem-c")
	if err != nil || got != nil {
		t.Fatalf("expected memory gone, got %+v err=%v", got, err)
	}
}

func TestMedia_DeleteSingleItem(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := newMemory("mem-d", "2024-04-01T00:00:00Z", 1, 2)
	if err := s.Memories().Upsert(ctx, m); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	item := &model.MemoryMedia{ID: "med-1", MemoryID: "mem-d", Type: model.MediaImage, URI: "file:///p.jpg", CreatedAt: "2024-04-01T01:00:00Z"}
	if err := s.Media().Add(ctx, item); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Media().Delete(ctx, "med-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err := s.Media().ListByMemory(ctx, "mem-d")
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty media list, got %+v err=%v", items, err)
	}
}

func TestNew_LazyOpenOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := New(filepath.Join(dir, "memories.db"), zerolog.Nop())

	// first operation opens the file and applies the schema
	list, err := s.Memories().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty store, got %+v", list)
	}

	m := newMemory("mem-f", "2024-05-01T00:00:00Z", 3, 4)
	if err := s.Memories().Upsert(ctx, m); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// a second store over the same file sees the row
	s2 := New(filepath.Join(dir, "memories.db"), zerolog.Nop())
	got, err := s2.Memories().GetByID(ctx, "mem-f")
	if err != nil || got == nil {
		t.Fatalf("reopen get: got=%v err=%v", got, err)
	}
}
