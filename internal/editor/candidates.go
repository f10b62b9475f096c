package editor

import (
	"fmt"
	"slices"

	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/report"
	"github.com/zulandar/pitwall/internal/store"
)

// Candidate is a field that can be added to favorites.
type Candidate struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FavoriteCandidates lists the fields found in stored records that are not
// yet favorites, in discovery order. Team lists are not records and are
// skipped.
func FavoriteCandidates(s store.Store, current []string) ([]Candidate, error) {
	fields, err := recordFields(s)
	if err != nil {
		return nil, err
	}
	out := []Candidate{}
	for _, f := range fields {
		if slices.Contains(current, f) {
			continue
		}
		out = append(out, Candidate{Key: f, Label: DisplayName(f)})
	}
	return out, nil
}

// recordFields discovers every field of every record type.
func recordFields(s store.Store) ([]string, error) {
	cats, err := s.Categories()
	if err != nil {
		return nil, fmt.Errorf("editor: fields: %w", err)
	}
	cats = slices.DeleteFunc(cats, func(c string) bool { return c == keys.CategoryTeams })

	fields, err := report.DiscoverFields(s, cats...)
	if err != nil {
		return nil, fmt.Errorf("editor: fields: %w", err)
	}
	return fields, nil
}
