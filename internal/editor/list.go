// Package editor edits the named lists inside the shared settings object.
// Every successful mutation persists the whole settings object before the
// new list becomes visible.
package editor

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrOutOfRange is returned when deleting an index that does not exist.
	ErrOutOfRange = errors.New("editor: index out of range")
	// ErrDuplicate is returned when adding an entry already in the list.
	ErrDuplicate = errors.New("editor: duplicate entry")
	// ErrUnknownList is returned for list names that have no editor.
	ErrUnknownList = errors.New("editor: unknown list")
	// ErrInvalid is returned when a candidate entry fails validation.
	ErrInvalid = errors.New("editor: invalid entry")
)

// DuplicateError names the entry that blocked an add.
type DuplicateError struct {
	List  string
	Name  string
	Index int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s is already in %s", e.Name, e.List)
}

// Is makes errors.Is(err, ErrDuplicate) true.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// Delete returns items without the entry at i. items is not modified;
// entries after i shift down by one.
func Delete[T any](items []T, i int) ([]T, error) {
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(items))
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), nil
}

// Add returns items with c appended, or the index of the equal entry and
// ErrDuplicate. items is not modified.
func Add[T any](items []T, c T, same func(a, b T) bool) ([]T, int, error) {
	if i := slices.IndexFunc(items, func(x T) bool { return same(x, c) }); i >= 0 {
		return nil, i, ErrDuplicate
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, c), -1, nil
}
