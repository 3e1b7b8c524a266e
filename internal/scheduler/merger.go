package scheduler

import (
	"sort"

	"github.com/alexanderramin/lessonplan/internal/domain"
)

// Merge combines persisted and generated occurrences into one list with at
// most one entry per (assignment, lesson) key, sorted by StartAt.
//
// Persisted entries are authoritative: a generated entry is only kept when no
// persisted entry shares its key. Among duplicate persisted keys the first
// wins. Ties on StartAt keep insertion order, persisted before generated.
func Merge(persisted, generated []domain.Occurrence) []domain.Occurrence {
	seen := make(map[domain.OccurrenceKey]bool, len(persisted)+len(generated))
	out := make([]domain.Occurrence, 0, len(persisted)+len(generated))

	add := func(o domain.Occurrence) {
		k := o.Key()
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, o)
	}
	for _, o := range persisted {
		add(o)
	}
	for _, o := range generated {
		add(o)
	}

	SortOccurrences(out)
	return out
}

// SortOccurrences sorts ascending by StartAt, stable on ties.
func SortOccurrences(occs []domain.Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		return occs[i].StartAt.Before(occs[j].StartAt)
	})
}
