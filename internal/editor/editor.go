package editor

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/zulandar/pitwall/internal/report"
	"github.com/zulandar/pitwall/internal/settings"
	"github.com/zulandar/pitwall/internal/store"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// List names.
const (
	Favorites    = "favorites"
	SmartStats   = "smart_stats"
	SmartResults = "smart_results"
)

// Item is one rendered list entry with its delete position.
type Item struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Entry any    `json:"entry"`
}

// View is the render-ready state of one list.
type View struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// ListEditor is the type-erased editor used by the CLI and dashboard.
type ListEditor interface {
	Name() string
	List(sess *settings.Session) View
	Delete(sess *settings.Session, i int) (View, error)
	// AddJSON decodes one entry from JSON and appends it.
	AddJSON(sess *settings.Session, raw []byte) (View, error)
}

// Editor edits one list of entries of type T.
type Editor[T any] struct {
	name     string
	get      func(*settings.Settings) []T
	put      func(*settings.Settings, []T)
	label    func(T) string
	same     func(a, b T) bool
	validate func(T) error
	// known, when set, checks c against the stored records. It returns
	// ErrInvalid for entries that refer to nothing.
	known func(store.Store, T) error
}

// Name returns the list name.
func (e *Editor[T]) Name() string { return e.name }

// List renders the current entries.
func (e *Editor[T]) List(sess *settings.Session) View {
	items := e.get(sess.Settings())
	v := View{Name: e.name, Items: make([]Item, len(items))}
	for i, it := range items {
		v.Items[i] = Item{Index: i, Label: e.label(it), Entry: it}
	}
	return v
}

// Delete removes entry i, persists the settings and returns the new view.
func (e *Editor[T]) Delete(sess *settings.Session, i int) (View, error) {
	next, err := Delete(e.get(sess.Settings()), i)
	if err != nil {
		return View{}, err
	}
	if err := e.commit(sess, next); err != nil {
		return View{}, err
	}
	return e.List(sess), nil
}

// Add appends c, persists the settings and returns the new view. An entry
// already in the list is reported as a duplicate before it is validated.
func (e *Editor[T]) Add(sess *settings.Session, c T) (View, error) {
	current := e.get(sess.Settings())
	next, at, err := Add(current, c, e.same)
	if err != nil {
		return View{}, &DuplicateError{List: e.name, Name: e.label(current[at]), Index: at}
	}
	if e.validate != nil {
		if err := e.validate(c); err != nil {
			return View{}, fmt.Errorf("%w: %s: %v", ErrInvalid, e.name, err)
		}
	}
	if e.known != nil {
		if err := e.known(sess.Store(), c); err != nil {
			return View{}, err
		}
	}
	if err := e.commit(sess, next); err != nil {
		return View{}, err
	}
	return e.List(sess), nil
}

// AddJSON decodes an entry and adds it.
func (e *Editor[T]) AddJSON(sess *settings.Session, raw []byte) (View, error) {
	var c T
	if err := json.Unmarshal(raw, &c); err != nil {
		return View{}, fmt.Errorf("%w: %s: decode entry: %v", ErrInvalid, e.name, err)
	}
	return e.Add(sess, c)
}

func (e *Editor[T]) commit(sess *settings.Session, items []T) error {
	next := sess.Settings().Clone()
	e.put(next, items)
	if err := sess.Commit(next); err != nil {
		return fmt.Errorf("editor: %s: %w", e.name, err)
	}
	return nil
}

// NewFavorites edits the favorite field keys. Entries are identified by
// exact key equality and displayed humanized. Only fields present in some
// stored record can be added.
func NewFavorites() *Editor[string] {
	return &Editor[string]{
		name:  Favorites,
		get:   func(s *settings.Settings) []string { return s.Favorites },
		put:   func(s *settings.Settings, v []string) { s.Favorites = v },
		label: DisplayName,
		same:  func(a, b string) bool { return a == b },
		validate: func(k string) error {
			if k == "" {
				return fmt.Errorf("field key is required")
			}
			return nil
		},
		known: func(st store.Store, k string) error {
			fields, err := recordFields(st)
			if err != nil {
				return err
			}
			if !slices.Contains(fields, k) {
				return fmt.Errorf("%w: %s: no stored record has field %q", ErrInvalid, Favorites, k)
			}
			return nil
		},
	}
}

// NewSmartStats edits derived per-record statistics, identified by name.
func NewSmartStats() *Editor[settings.SmartStat] {
	return &Editor[settings.SmartStat]{
		name:     SmartStats,
		get:      func(s *settings.Settings) []settings.SmartStat { return s.SmartStats },
		put:      func(s *settings.Settings, v []settings.SmartStat) { s.SmartStats = v },
		label:    func(st settings.SmartStat) string { return st.Name },
		same:     func(a, b settings.SmartStat) bool { return a.Name == b.Name },
		validate: report.CompileStat,
	}
}

// NewSmartResults edits per-group aggregates, identified by name.
func NewSmartResults() *Editor[settings.SmartResult] {
	return &Editor[settings.SmartResult]{
		name:     SmartResults,
		get:      func(s *settings.Settings) []settings.SmartResult { return s.SmartResults },
		put:      func(s *settings.Settings, v []settings.SmartResult) { s.SmartResults = v },
		label:    func(r settings.SmartResult) string { return r.Name },
		same:     func(a, b settings.SmartResult) bool { return a.Name == b.Name },
		validate: report.ValidateResult,
	}
}

// Lookup returns the editor for a list name. Dashes are accepted in place of
// underscores.
func Lookup(name string) (ListEditor, error) {
	switch strings.ReplaceAll(name, "-", "_") {
	case Favorites:
		return NewFavorites(), nil
	case SmartStats:
		return NewSmartStats(), nil
	case SmartResults:
		return NewSmartResults(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownList, name)
}

// Names lists every editable list.
func Names() []string {
	return []string{Favorites, SmartStats, SmartResults}
}

// DisplayName humanizes a field key: "auto_points" becomes "Auto Points".
func DisplayName(key string) string {
	// Casers keep state between calls and cannot be shared.
	return cases.Title(language.English).String(strings.NewReplacer("_", " ", "-", " ").Replace(key))
}
