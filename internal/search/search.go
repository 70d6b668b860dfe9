// Package search filters and orders memory collections in memory. It never
// touches the store and is cheap enough to call on every keystroke.
package search

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mapmemories/mapmemories/internal/model"
)

// TrackFilter restricts results by track attachment.
type TrackFilter string

const (
	FilterAll          TrackFilter = "all"
	FilterWithTrack    TrackFilter = "withTrack"
	FilterWithoutTrack TrackFilter = "withoutTrack"
)

// SortOrder selects the chronological direction over happenedAt.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Options parameterize FilterAndSort.
type Options struct {
	Query  string
	Filter TrackFilter
	Sort   SortOrder
}

// invalidDateOnce limits the malformed-happenedAt degradation log to once
// per process; the function may run on every keystroke.
var invalidDateOnce sync.Once

// FilterAndSort returns the memories matching the query and track filter,
// ordered by happenedAt. The input slice is never mutated.
//
// If any candidate's happenedAt fails to parse, the sort step is abandoned
// and the filtered memories come back in their original input order. One bad
// date must not take down the list view; the degradation is logged once.
func FilterAndSort(memories []*model.Memory, opts Options) []*model.Memory {
	query := Normalize(opts.Query)

	filtered := make([]*model.Memory, 0, len(memories))
	for _, m := range memories {
		if !matchesQuery(m, query) {
			continue
		}
		switch opts.Filter {
		case FilterWithTrack:
			if m.Track == nil {
				continue
			}
		case FilterWithoutTrack:
			if m.Track != nil {
				continue
			}
		}
		filtered = append(filtered, m)
	}

	keys := make([]time.Time, len(filtered))
	for i, m := range filtered {
		ts, err := time.Parse(time.RFC3339, m.HappenedAt)
		if err != nil {
			invalidDateOnce.Do(func() {
				log.Warn().Str("happenedAt", m.HappenedAt).Msg("invalid happenedAt while sorting memories; returning unsorted results")
			})
			return filtered
		}
		keys[i] = ts
	}

	order := make([]int, len(filtered))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if opts.Sort == SortOldest {
			return keys[order[a]].Before(keys[order[b]])
		}
		return keys[order[a]].After(keys[order[b]])
	})

	out := make([]*model.Memory, len(filtered))
	for i, idx := range order {
		out[i] = filtered[idx]
	}
	return out
}

// Normalize lowercases, trims, and collapses internal whitespace runs to
// single spaces.
func Normalize(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}

// matchesQuery reports whether any of the memory's text fields contains the
// normalized query. Absent fields are skipped, not treated as matching.
func matchesQuery(m *model.Memory, normalizedQuery string) bool {
	if normalizedQuery == "" {
		return true
	}
	for _, field := range []*string{m.Title, m.Body, m.PlaceLabel} {
		if field != nil && strings.Contains(Normalize(*field), normalizedQuery) {
			return true
		}
	}
	return false
}
