// Package memory provides an entry store kept in process memory. It backs the
// services when storage is set to "memory" and is handy in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vadimbarashkov/nhood/internal/entity"
)

// Repository stores copies of the entries it is given, so callers never share
// memory with the store.
type Repository[E any] struct {
	mu      sync.RWMutex
	entries map[int64]*E
	lastID  int64
	idOf    func(*E) *int64
	merge   func(existing, incoming *E) *E
}

// New returns an empty repository. idOf must return the address of the entry's
// id field and merge must copy every other field.
func New[E any](idOf func(*E) *int64, merge func(existing, incoming *E) *E) *Repository[E] {
	return &Repository[E]{
		entries: make(map[int64]*E),
		idOf:    idOf,
		merge:   merge,
	}
}

func NewDataURLRepository() *Repository[entity.DataURL] {
	return New(func(e *entity.DataURL) *int64 { return &e.ID }, entity.MergeDataURL)
}

func NewLocationRepository() *Repository[entity.Location] {
	return New(func(e *entity.Location) *int64 { return &e.ID }, entity.MergeLocation)
}

func (r *Repository[E]) clone(e *E) *E {
	c := new(E)
	*r.idOf(c) = *r.idOf(e)
	return r.merge(c, e)
}

func (r *Repository[E]) FindAll(_ context.Context) ([]*E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	entries := make([]*E, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, r.clone(r.entries[id]))
	}

	return entries, nil
}

func (r *Repository[E]) FindByID(_ context.Context, id int64) (*E, error) {
	const op = "adapter.repository.memory.Repository.FindByID"

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrEntryNotFound)
	}

	return r.clone(e), nil
}

// Save inserts e under a fresh id when its id is zero and overwrites the stored
// entry otherwise.
func (r *Repository[E]) Save(_ context.Context, e *E) (*E, error) {
	const op = "adapter.repository.memory.Repository.Save"

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.clone(e)
	id := r.idOf(stored)

	if *id == 0 {
		r.lastID++
		*id = r.lastID
	} else if _, ok := r.entries[*id]; !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrEntryNotFound)
	}

	r.entries[*id] = stored

	return r.clone(stored), nil
}

func (r *Repository[E]) Delete(_ context.Context, e *E) error {
	const op = "adapter.repository.memory.Repository.Delete"

	r.mu.Lock()
	defer r.mu.Unlock()

	id := *r.idOf(e)
	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("%s: %w", op, entity.ErrEntryNotFound)
	}

	delete(r.entries, id)

	return nil
}

func (r *Repository[E]) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.entries)), nil
}
