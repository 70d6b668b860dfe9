package sqlite

import (
	"context"

	"github.com/mapmemories/mapmemories/internal/model"
)

type media struct {
	s *sqliteStore
}

func (md *media) ListByMemory(ctx context.Context, memoryID string) ([]*model.MemoryMedia, error) {
	db, err := md.s.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, memoryId, type, uri, createdAt FROM memory_media WHERE memoryId = ? ORDER BY createdAt DESC`,
		memoryID)
	if err != nil {
		md.s.log.Error().Err(err).Str("memoryId", memoryID).Msg("failed to list media")
		return nil, err
	}
	defer rows.Close()

	var out []*model.MemoryMedia
	for rows.Next() {
		var item model.MemoryMedia
		if err := rows.Scan(&item.ID, &item.MemoryID, &item.Type, &item.URI, &item.CreatedAt); err != nil {
			md.s.log.Error().Err(err).Msg("failed to scan media row")
			return nil, err
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		md.s.log.Error().Err(err).Str("memoryId", memoryID).Msg("failed to list media")
		return nil, err
	}
	return out, nil
}

func (md *media) Add(ctx context.Context, item *model.MemoryMedia) error {
	db, err := md.s.handle()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO memory_media (id, memoryId, type, uri, createdAt) VALUES (?,?,?,?,?)`,
		item.ID, item.MemoryID, item.Type, item.URI, item.CreatedAt)
	if err != nil {
		md.s.log.Error().Err(err).Str("id", item.ID).Msg("failed to add media")
		return err
	}
	return nil
}

func (md *media) Delete(ctx context.Context, id string) error {
	db, err := md.s.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM memory_media WHERE id = ?`, id); err != nil {
		md.s.log.Error().Err(err).Str("id", id).Msg("failed to delete media")
		return err
	}
	return nil
}
