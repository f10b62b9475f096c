// Package settings holds the shared settings object (favorite fields and
// smart statistics) persisted under keys.SettingsKey.
package settings

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/store"
)

// SmartStat is a derived column computed per record from an expression.
// An empty Type applies the stat to every report.
type SmartStat struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Expr string `json:"expr"`
}

// SmartResult aggregates one numeric field of a report type per group.
type SmartResult struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Field   string `json:"field"`
	Agg     string `json:"agg"`
	GroupBy string `json:"group_by,omitempty"`
}

// Settings is the shared settings object. Top-level fields written by other
// tools are kept and written back unchanged.
type Settings struct {
	Favorites    []string
	SmartStats   []SmartStat
	SmartResults []SmartResult

	extra map[string]json.RawMessage
}

const (
	fieldFavorites    = "favorites"
	fieldSmartStats   = "smart_stats"
	fieldSmartResults = "smart_results"
)

// UnmarshalJSON decodes the known lists and keeps everything else.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Settings
	if v, ok := raw[fieldFavorites]; ok {
		if err := json.Unmarshal(v, &out.Favorites); err != nil {
			return fmt.Errorf("settings: %s: %w", fieldFavorites, err)
		}
		delete(raw, fieldFavorites)
	}
	if v, ok := raw[fieldSmartStats]; ok {
		if err := json.Unmarshal(v, &out.SmartStats); err != nil {
			return fmt.Errorf("settings: %s: %w", fieldSmartStats, err)
		}
		delete(raw, fieldSmartStats)
	}
	if v, ok := raw[fieldSmartResults]; ok {
		if err := json.Unmarshal(v, &out.SmartResults); err != nil {
			return fmt.Errorf("settings: %s: %w", fieldSmartResults, err)
		}
		delete(raw, fieldSmartResults)
	}
	if len(raw) > 0 {
		out.extra = raw
	}
	*s = out
	return nil
}

// MarshalJSON encodes the whole object, including preserved fields. Lists
// are always present, even when empty.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.extra)+3)
	for k, v := range s.extra {
		out[k] = v
	}
	out[fieldFavorites] = nonNil(s.Favorites)
	out[fieldSmartStats] = nonNil(s.SmartStats)
	out[fieldSmartResults] = nonNil(s.SmartResults)
	return json.Marshal(out)
}

// Clone returns a copy whose lists can be modified without touching s.
func (s *Settings) Clone() *Settings {
	c := &Settings{
		Favorites:    slices.Clone(s.Favorites),
		SmartStats:   slices.Clone(s.SmartStats),
		SmartResults: slices.Clone(s.SmartResults),
	}
	if s.extra != nil {
		c.extra = make(map[string]json.RawMessage, len(s.extra))
		for k, v := range s.extra {
			c.extra[k] = v
		}
	}
	return c
}

// Load reads the settings object. A missing object yields empty settings.
func Load(st store.Store) (*Settings, error) {
	var s Settings
	if _, err := store.GetJSON(st, keys.SettingsKey, &s); err != nil {
		return nil, fmt.Errorf("settings: load: %w", err)
	}
	return &s, nil
}

// Save writes the whole settings object.
func Save(st store.Store, s *Settings) error {
	if err := st.Set(keys.SettingsKey, s); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
