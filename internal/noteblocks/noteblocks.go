// Package noteblocks converts between the structured note block model and the
// single serialized column the store persists, and bridges legacy plain-text
// bodies into the block model.
package noteblocks

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/mapmemories/mapmemories/internal/model"
)

// legacyBlockSuffix derives a stable block id for a body synthesized from a
// legacy memory, so repeated reconciliation is idempotent.
const legacyBlockSuffix = "-legacy-note"

// NewBlockID returns a fresh id for a user-created block.
func NewBlockID() string {
	return uuid.NewString()
}

// Sanitize trims trailing whitespace from text blocks and drops any
// non-divider block whose trimmed text is empty. Dividers are always kept.
// It must run before every persisted write.
func Sanitize(blocks []model.NoteBlock) []model.NoteBlock {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]model.NoteBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind == model.BlockDivider {
			b.Text = ""
			out = append(out, b)
			continue
		}
		b.Text = strings.TrimRight(b.Text, " \t\r\n")
		if strings.TrimSpace(b.Text) == "" {
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Serialize encodes blocks into the stored column value. An empty or nil list
// serializes to nil, so "no blocks" and "empty blocks" are indistinguishable
// once persisted.
func Serialize(blocks []model.NoteBlock) *string {
	if len(blocks) == 0 {
		return nil
	}
	raw, err := json.Marshal(blocks)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

// storedBlock mirrors one persisted element; fields are validated per kind.
type storedBlock struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// Parse decodes a stored column value back into an ordered block list.
// Malformed input never fails the containing memory: anything that is not a
// JSON list degrades to nil, and elements that are not valid blocks are
// skipped. A result with no valid blocks is reported as absent (nil).
func Parse(value *string) []model.NoteBlock {
	if value == nil || *value == "" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(*value), &items); err != nil {
		return nil
	}

	out := make([]model.NoteBlock, 0, len(items))
	for _, item := range items {
		var sb storedBlock
		if err := json.Unmarshal(item, &sb); err != nil || sb.ID == "" {
			continue
		}
		switch model.BlockKind(sb.Type) {
		case model.BlockDivider:
			out = append(out, model.NoteBlock{ID: sb.ID, Kind: model.BlockDivider})
		case model.BlockHeading, model.BlockParagraph:
			out = append(out, model.NoteBlock{ID: sb.ID, Kind: model.BlockKind(sb.Type), Text: sb.Text})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Reconcile returns the blocks to render and edit for a memory. A memory that
// already carries blocks keeps them; a legacy memory with only a plain-text
// body gets a single synthesized paragraph block with a deterministic id.
func Reconcile(m *model.Memory) []model.NoteBlock {
	if m == nil {
		return nil
	}
	if len(m.NoteBlocks) > 0 {
		return m.NoteBlocks
	}
	if m.Body == nil {
		return nil
	}
	body := strings.TrimSpace(*m.Body)
	if body == "" {
		return nil
	}
	id := NewBlockID()
	if m.ID != "" {
		id = m.ID + legacyBlockSuffix
	}
	return []model.NoteBlock{{ID: id, Kind: model.BlockParagraph, Text: body}}
}
