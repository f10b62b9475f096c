package settings

import "github.com/zulandar/pitwall/internal/store"

// Session owns the in-memory settings object for one user session and the
// store it is persisted to. It is not safe for concurrent use; callers that
// share a Session serialize access themselves.
type Session struct {
	store   store.Store
	current *Settings
}

// Open loads the settings object and starts a session on it.
func Open(st store.Store) (*Session, error) {
	s, err := Load(st)
	if err != nil {
		return nil, err
	}
	return &Session{store: st, current: s}, nil
}

// Settings returns the current settings. Callers must not modify it; use
// Commit with a modified Clone instead.
func (ss *Session) Settings() *Settings {
	return ss.current
}

// Store returns the backing store.
func (ss *Session) Store() store.Store {
	return ss.store
}

// Commit persists next as a whole and makes it current. On error the
// current settings are left as they were.
func (ss *Session) Commit(next *Settings) error {
	if err := Save(ss.store, next); err != nil {
		return err
	}
	ss.current = next
	return nil
}

// Save persists the current settings unchanged.
func (ss *Session) Save() error {
	return Save(ss.store, ss.current)
}
