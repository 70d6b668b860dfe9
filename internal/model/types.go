package model

// Memory is a journal entry anchored to a point in time and space.
// Timestamps are ISO-8601 strings; happenedAt in particular may carry an
// unparseable value from older data and must survive a round trip unchanged.
type Memory struct {
	ID         string      `json:"id"`
	Title      *string     `json:"title,omitempty"`
	Body       *string     `json:"body,omitempty"`
	NoteBlocks []NoteBlock `json:"noteBlocks,omitempty"`
	CreatedAt  string      `json:"createdAt"`
	HappenedAt string      `json:"happenedAt"`
	Latitude   float64     `json:"latitude"`
	Longitude  float64     `json:"longitude"`
	PlaceLabel *string     `json:"placeLabel,omitempty"`
	UpdatedAt  string      `json:"updatedAt"`
	Track      *Track      `json:"track,omitempty"`
}

// BlockKind discriminates the note block variants.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockDivider   BlockKind = "divider"
)

// NoteBlock is one unit of structured note content. Text is meaningful for
// heading and paragraph blocks only; a divider carries no payload.
// The JSON tags define the serialized column format.
type NoteBlock struct {
	ID   string    `json:"id"`
	Kind BlockKind `json:"type"`
	Text string    `json:"text,omitempty"`
}

// Track is a song reference sourced from the external music catalog.
// It has no lifecycle of its own; it is value data embedded in a Memory.
// A nil PreviewURL means "preview unavailable", which is a valid state.
type Track struct {
	ExternalID  string  `json:"externalTrackId"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	AlbumArtURL *string `json:"albumArtUrl,omitempty"`
	PreviewURL  *string `json:"previewUrl,omitempty"`
}

// MediaType enumerates supported media kinds.
type MediaType string

const MediaImage MediaType = "image"

// MemoryMedia is an auxiliary media item owned by exactly one Memory.
type MemoryMedia struct {
	ID        string    `json:"id"`
	MemoryID  string    `json:"memoryId"`
	Type      MediaType `json:"type"`
	URI       string    `json:"uri"`
	CreatedAt string    `json:"createdAt"`
}
