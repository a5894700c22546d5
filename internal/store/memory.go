package store

import (
	"context"
	"sync"

	"github.com/ppiankov/conceptor/internal/concept"
)

// MemoryRepository keeps snapshots in a map. A single mutex serialises
// writers, which makes the idea id check and the write one step.
type MemoryRepository struct {
	mu       sync.RWMutex
	clock    concept.Clock
	concepts map[string]concept.Snapshot
	ideas    map[string]string // idea id -> concept id
}

func NewMemoryRepository(clock concept.Clock) *MemoryRepository {
	return &MemoryRepository{
		clock:    clock,
		concepts: make(map[string]concept.Snapshot),
		ideas:    make(map[string]string),
	}
}

func (r *MemoryRepository) Add(_ context.Context, c *concept.Concept) error {
	snap := c.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.concepts[snap.ID]; ok {
		return ErrDuplicateID
	}
	if err := r.checkIdea(snap); err != nil {
		return err
	}
	r.put(snap)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*concept.Concept, error) {
	r.mu.RLock()
	snap, ok := r.concepts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return concept.Restore(snap, r.clock)
}

func (r *MemoryRepository) Update(_ context.Context, id string, mutate Mutator) (*concept.Concept, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.concepts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c, err := concept.Restore(snap, r.clock)
	if err != nil {
		return nil, err
	}
	if err := mutate(c); err != nil {
		return nil, err
	}

	next := c.Snapshot()
	if err := r.checkIdea(next); err != nil {
		return nil, err
	}
	if snap.IdeaID != "" && snap.IdeaID != next.IdeaID {
		delete(r.ideas, snap.IdeaID)
	}
	r.put(next)
	return c, nil
}

func (r *MemoryRepository) List(_ context.Context, filter Filter) ([]*concept.Concept, error) {
	r.mu.RLock()
	snaps := make([]concept.Snapshot, 0, len(r.concepts))
	for _, s := range r.concepts {
		if filter.matches(s.State) {
			snaps = append(snaps, s)
		}
	}
	r.mu.RUnlock()

	sortSnapshots(snaps)
	if filter.Limit > 0 && len(snaps) > filter.Limit {
		snaps = snaps[:filter.Limit]
	}

	out := make([]*concept.Concept, 0, len(snaps))
	for _, s := range snaps {
		c, err := concept.Restore(s, r.clock)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *MemoryRepository) Close() error { return nil }

// checkIdea must be called with the write lock held.
func (r *MemoryRepository) checkIdea(s concept.Snapshot) error {
	if s.IdeaID == "" {
		return nil
	}
	if owner, ok := r.ideas[s.IdeaID]; ok && owner != s.ID {
		return &IdeaConflictError{IdeaID: s.IdeaID}
	}
	return nil
}

func (r *MemoryRepository) put(s concept.Snapshot) {
	r.concepts[s.ID] = s
	if s.IdeaID != "" {
		r.ideas[s.IdeaID] = s.ID
	}
}
