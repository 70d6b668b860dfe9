package sqlite

import (
	"database/sql"

	"github.com/mapmemories/mapmemories/internal/model"
	"github.com/mapmemories/mapmemories/internal/noteblocks"
)

// memoryColumns is the canonical column order shared by every memory query.
const memoryColumns = `id, title, body, createdAt, happenedAt, latitude, longitude, placeLabel, updatedAt, trackId, trackTitle, trackArtist, trackAlbumArtUrl, trackPreviewUrl, noteBlocks`

// memoryRow is the flat shape persisted in the memories table. The five
// track columns and the serialized noteBlocks column are denormalized from
// the nested domain model.
type memoryRow struct {
	ID               string
	Title            sql.NullString
	Body             sql.NullString
	CreatedAt        string
	HappenedAt       string
	Latitude         float64
	Longitude        float64
	PlaceLabel       sql.NullString
	UpdatedAt        string
	TrackID          sql.NullString
	TrackTitle       sql.NullString
	TrackArtist      sql.NullString
	TrackAlbumArtURL sql.NullString
	TrackPreviewURL  sql.NullString
	NoteBlocks       sql.NullString
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *memoryRow) scan(s scanner) error {
	return s.Scan(
		&r.ID, &r.Title, &r.Body, &r.CreatedAt, &r.HappenedAt,
		&r.Latitude, &r.Longitude, &r.PlaceLabel, &r.UpdatedAt,
		&r.TrackID, &r.TrackTitle, &r.TrackArtist, &r.TrackAlbumArtURL, &r.TrackPreviewURL,
		&r.NoteBlocks,
	)
}

// args returns the row values in memoryColumns order, for INSERT binding.
func (r *memoryRow) args() []any {
	return []any{
		r.ID, r.Title, r.Body, r.CreatedAt, r.HappenedAt,
		r.Latitude, r.Longitude, r.PlaceLabel, r.UpdatedAt,
		r.TrackID, r.TrackTitle, r.TrackArtist, r.TrackAlbumArtURL, r.TrackPreviewURL,
		r.NoteBlocks,
	}
}

// toMemory splits the flat row into the nested domain shape. A track is
// reconstructed only when all three required track columns are present;
// partial track data degrades to no attached track. An unparseable
// noteBlocks value degrades to absent structured notes.
func (r *memoryRow) toMemory() *model.Memory {
	m := &model.Memory{
		ID:         r.ID,
		Title:      nullToPtr(r.Title),
		Body:       nullToPtr(r.Body),
		CreatedAt:  r.CreatedAt,
		HappenedAt: r.HappenedAt,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		PlaceLabel: nullToPtr(r.PlaceLabel),
		UpdatedAt:  r.UpdatedAt,
	}
	if r.TrackID.Valid && r.TrackTitle.Valid && r.TrackArtist.Valid {
		m.Track = &model.Track{
			ExternalID:  r.TrackID.String,
			Title:       r.TrackTitle.String,
			Artist:      r.TrackArtist.String,
			AlbumArtURL: nullToPtr(r.TrackAlbumArtURL),
			PreviewURL:  nullToPtr(r.TrackPreviewURL),
		}
	}
	if r.NoteBlocks.Valid {
		m.NoteBlocks = noteblocks.Parse(&r.NoteBlocks.String)
	}
	return m
}

// rowFromMemory flattens a memory for persistence. Note blocks are sanitized
// and serialized here so every write path stores a clean value; all five
// track columns are null when no track is attached.
func rowFromMemory(m *model.Memory) memoryRow {
	r := memoryRow{
		ID:         m.ID,
		Title:      ptrToNull(m.Title),
		Body:       ptrToNull(m.Body),
		CreatedAt:  m.CreatedAt,
		HappenedAt: m.HappenedAt,
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		PlaceLabel: ptrToNull(m.PlaceLabel),
		UpdatedAt:  m.UpdatedAt,
	}
	if t := m.Track; t != nil {
		r.TrackID = sql.NullString{String: t.ExternalID, Valid: true}
		r.TrackTitle = sql.NullString{String: t.Title, Valid: true}
		r.TrackArtist = sql.NullString{String: t.Artist, Valid: true}
		r.TrackAlbumArtURL = ptrToNull(t.AlbumArtURL)
		r.TrackPreviewURL = ptrToNull(t.PreviewURL)
	}
	if serialized := noteblocks.Serialize(noteblocks.Sanitize(m.NoteBlocks)); serialized != nil {
		r.NoteBlocks = sql.NullString{String: *serialized, Valid: true}
	}
	return r
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func ptrToNull(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
