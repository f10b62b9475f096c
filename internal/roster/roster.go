// Package roster builds the team list for an event annotated with whether
// each team has been scouted.
package roster

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/record"
	"github.com/zulandar/pitwall/internal/store"
)

// Status is the derived scouting status of a team.
type Status string

const (
	StatusScouted    Status = "scouted"
	StatusNotScouted Status = "not_scouted"
)

// PitAlliance is the alliance tag sent with every pit-scouting target.
const PitAlliance = "pit"

// ErrUnknownTeam is returned when opening a team that is not on the roster.
var ErrUnknownTeam = errors.New("roster: team not on roster")

// Entry is one team on the roster.
type Entry struct {
	TeamNumber int    `json:"team_number"`
	Nickname   string `json:"nickname,omitempty"`
	Status     Status `json:"status"`
}

// Roster is the status view of one event.
type Roster struct {
	Event    string  `json:"event"`
	Mode     string  `json:"mode"`
	Entries  []Entry `json:"entries"`
	Selected int     `json:"selected,omitempty"`
}

// Build reads the team list for event and derives each team's status from
// the presence of its <mode>-<team> form. A missing team list yields an
// empty roster.
func Build(s store.Store, event, mode string) (*Roster, error) {
	if mode == "" {
		mode = keys.ModePit
	}
	r := &Roster{Event: event, Mode: mode, Entries: []Entry{}}

	teamsKey := keys.Teams(event)
	var teams []record.Record
	found, err := store.GetJSON(s, teamsKey, &teams)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	if !found {
		return r, nil
	}

	for i, team := range teams {
		n, ok := team.Int("team_number")
		if !ok {
			return nil, fmt.Errorf("roster: %w: %s[%d] has no integer team_number", store.ErrDecode, teamsKey, i)
		}
		_, scouted, err := s.Get(keys.Form(mode, n))
		if err != nil {
			return nil, fmt.Errorf("roster: status of %d: %w", n, err)
		}
		e := Entry{TeamNumber: n, Status: StatusNotScouted}
		if scouted {
			e.Status = StatusScouted
		}
		e.Nickname, _ = team.String("nickname")
		r.Entries = append(r.Entries, e)
	}
	return r, nil
}

// Open selects a team and returns the query for its scouting page.
func (r *Roster) Open(team int) (url.Values, error) {
	if !r.has(team) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTeam, team)
	}
	r.Selected = team
	return url.Values{
		"mode":     {r.Mode},
		"team":     {strconv.Itoa(team)},
		"alliance": {PitAlliance},
	}, nil
}

// Coverage returns how many teams are scouted out of the total.
func (r *Roster) Coverage() (scouted, total int) {
	for _, e := range r.Entries {
		if e.Status == StatusScouted {
			scouted++
		}
	}
	return scouted, len(r.Entries)
}

// Pending returns the teams that still need scouting, in roster order.
func (r *Roster) Pending() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status != StatusScouted {
			out = append(out, e)
		}
	}
	return out
}

func (r *Roster) has(team int) bool {
	for _, e := range r.Entries {
		if e.TeamNumber == team {
			return true
		}
	}
	return false
}
