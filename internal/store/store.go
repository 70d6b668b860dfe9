package store

import (
	"context"

	"github.com/mapmemories/mapmemories/internal/model"
)

// Store is the sole read/write path to persisted memories and media.
// Implementations live under internal/store/<driver>/ (currently sqlite).
//
// Every operation independently guarantees the schema is current before
// touching tables, and propagates storage failures instead of substituting
// defaults. Absence of a record is not a failure.
type Store interface {
	Memories() Memories
	Media() Media
}

type Memories interface {
	// List returns all memories ordered by happenedAt descending.
	List(ctx context.Context) ([]*model.Memory, error)
	// GetByID returns (nil, nil) when no memory has the given id.
	GetByID(ctx context.Context, id string) (*model.Memory, error)
	// Upsert writes the full record in a single insert-or-replace statement
	// keyed by id. There is no partial-field update.
	Upsert(ctx context.Context, m *model.Memory) error
	// Delete removes the memory and all media it owns as one logical
	// operation.
	Delete(ctx context.Context, id string) error
}

type Media interface {
	// ListByMemory returns the media owned by a memory, most recent first.
	ListByMemory(ctx context.Context, memoryID string) ([]*model.MemoryMedia, error)
	Add(ctx context.Context, item *model.MemoryMedia) error
	Delete(ctx context.Context, id string) error
}
