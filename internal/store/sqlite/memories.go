package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mapmemories/mapmemories/internal/model"
)

type memories struct {
	s *sqliteStore
}

func (ms *memories) List(ctx context.Context) ([]*model.Memory, error) {
	db, err := ms.s.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+memoryColumns+` FROM memories ORDER BY happenedAt DESC`)
	if err != nil {
		ms.s.log.Error().Err(err).Msg("failed to list memories")
		return nil, err
	}
	defer rows.Close()

	var out []*model.Memory
	for rows.Next() {
		var r memoryRow
		if err := r.scan(rows); err != nil {
			ms.s.log.Error().Err(err).Msg("failed to scan memory row")
			return nil, err
		}
		out = append(out, ms.decode(&r))
	}
	if err := rows.Err(); err != nil {
		ms.s.log.Error().Err(err).Msg("failed to list memories")
		return nil, err
	}
	return out, nil
}

func (ms *memories) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	db, err := ms.s.handle()
	if err != nil {
		return nil, err
	}
	var r memoryRow
	row := db.QueryRowContext(ctx, `SELECT `+memoryColumns+` FROM memories WHERE id = ?`, id)
	if err := r.scan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		ms.s.log.Error().Err(err).Str("id", id).Msg("failed to get memory")
		return nil, err
	}
	return ms.decode(&r), nil
}

func (ms *memories) Upsert(ctx context.Context, m *model.Memory) error {
	db, err := ms.s.handle()
	if err != nil {
		return err
	}
	r := rowFromMemory(m)
	_, err = db.ExecContext(ctx, `
        INSERT INTO memories (`+memoryColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            body = excluded.body,
            createdAt = excluded.createdAt,
            happenedAt = excluded.happenedAt,
            latitude = excluded.latitude,
            longitude = excluded.longitude,
            placeLabel = excluded.placeLabel,
            updatedAt = excluded.updatedAt,
            trackId = excluded.trackId,
            trackTitle = excluded.trackTitle,
            trackArtist = excluded.trackArtist,
            trackAlbumArtUrl = excluded.trackAlbumArtUrl,
            trackPreviewUrl = excluded.trackPreviewUrl,
            noteBlocks = excluded.noteBlocks
    `, r.args()...)
	if err != nil {
		ms.s.log.Error().Err(err).Str("id", m.ID).Msg("failed to upsert memory")
		return err
	}
	return nil
}

// Delete removes the memory's media and then the memory itself inside one
// transaction, so a crash cannot leave the two tables disagreeing.
func (ms *memories) Delete(ctx context.Context, id string) error {
	db, err := ms.s.handle()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM memory_media WHERE memoryId = ?`, id); err != nil {
		_ = tx.Rollback()
		ms.s.log.Error().Err(err).Str("id", id).Msg("failed to delete memory media")
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id); err != nil {
		_ = tx.Rollback()
		ms.s.log.Error().Err(err).Str("id", id).Msg("failed to delete memory")
		return err
	}
	return tx.Commit()
}

// decode converts a row and logs the degradations the mapper applies
// silently: partial track columns and unparseable note block data.
func (ms *memories) decode(r *memoryRow) *model.Memory {
	m := r.toMemory()
	anyTrack := r.TrackID.Valid || r.TrackTitle.Valid || r.TrackArtist.Valid
	if m.Track == nil && anyTrack {
		ms.s.log.Warn().Str("id", r.ID).Msg("incomplete track columns; treating memory as having no track")
	}
	if m.NoteBlocks == nil && r.NoteBlocks.Valid && r.NoteBlocks.String != "" {
		ms.s.log.Warn().Str("id", r.ID).Msg("unparseable note blocks; treating memory as having no structured notes")
	}
	return m
}
