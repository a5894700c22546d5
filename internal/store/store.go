// Package store persists concepts. Repositories load, mutate and save a
// concept as one unit and keep idea ids unique across concepts.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ppiankov/conceptor/internal/concept"
)

var (
	ErrNotFound       = errors.New("concept not found")
	ErrDuplicateID    = errors.New("concept id already exists")
	ErrIdeaIDConflict = errors.New("idea id already in use")
)

// IdeaConflictError is returned when a write would give two concepts the same
// idea id.
type IdeaConflictError struct {
	IdeaID string
}

func (e *IdeaConflictError) Error() string {
	return fmt.Sprintf("Concept with ideaId %s already exists", e.IdeaID)
}

func (e *IdeaConflictError) Is(target error) bool {
	return target == ErrIdeaIDConflict
}

// Mutator applies one change to a loaded concept. Returning an error aborts
// the update and nothing is persisted.
type Mutator func(c *concept.Concept) error

// Filter narrows List. Zero values match everything.
type Filter struct {
	States []concept.State
	Limit  int
}

func (f Filter) matches(s concept.State) bool {
	if len(f.States) == 0 {
		return true
	}
	for _, want := range f.States {
		if want == s {
			return true
		}
	}
	return false
}

// Repository is the persistence contract for concepts.
type Repository interface {
	// Add stores a new concept; ErrDuplicateID if the id is taken.
	Add(ctx context.Context, c *concept.Concept) error
	// Get loads a concept; ErrNotFound if absent.
	Get(ctx context.Context, id string) (*concept.Concept, error)
	// Update loads id, applies mutate and persists the result atomically.
	Update(ctx context.Context, id string, mutate Mutator) (*concept.Concept, error)
	// List returns concepts ordered by creation time.
	List(ctx context.Context, filter Filter) ([]*concept.Concept, error)
	Close() error
}

func sortSnapshots(snaps []concept.Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].ID < snaps[j].ID
		}
		return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
	})
}
