// Package keys defines the store key grammar shared by every reader and
// writer: teams-<event>, <mode>-<team> and <type>-<record-id>.
package keys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// CategoryTeams prefixes the per-event team list.
	CategoryTeams = "teams"
	// ModePit is the pit-scouting mode; its forms drive roster status.
	ModePit = "pit"
	// SettingsKey holds the shared settings object. It has no separator and
	// therefore belongs to no category.
	SettingsKey = "config"

	sep = "-"
)

// ErrMalformed is returned when a key does not follow <category>-<id>.
var ErrMalformed = errors.New("keys: malformed key")

// Key is a parsed <category>-<id> key.
type Key struct {
	Category string
	ID       string
}

// String reassembles the key.
func (k Key) String() string {
	return k.Category + sep + k.ID
}

// Teams returns the key of the team list for an event.
func Teams(event string) string {
	return Record(CategoryTeams, event)
}

// Form returns the key of the scouting form for a team under a mode.
func Form(mode string, team int) string {
	return Record(mode, strconv.Itoa(team))
}

// Record returns the key of a record of the given type.
func Record(reportType, id string) string {
	return reportType + sep + id
}

// Prefix returns the scan prefix for a report type.
func Prefix(reportType string) string {
	return reportType + sep
}

// Parse splits a key at its first separator. Record ids may contain further
// separators; categories never do.
func Parse(key string) (Key, error) {
	category, id, ok := strings.Cut(key, sep)
	if !ok || category == "" || id == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformed, key)
	}
	return Key{Category: category, ID: id}, nil
}

// Check accepts keys without a separator, such as the settings key, and
// keys that parse. A dangling separator is malformed.
func Check(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrMalformed)
	}
	if !strings.Contains(key, sep) {
		return nil
	}
	_, err := Parse(key)
	return err
}

// ValidCategory reports whether s can be used as a key category.
func ValidCategory(s string) bool {
	return s != "" && !strings.Contains(s, sep)
}

// TeamNumber returns the team number encoded in a form key's id, if any.
func (k Key) TeamNumber() (int, bool) {
	n, err := strconv.Atoi(k.ID)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
