// Package usecase implements the entry service shared by the data-url and
// location services. It wraps an entry store and enforces fetch-then-merge-
// then-save on modification and fetch-then-delete on removal.
package usecase

import (
	"context"
	"fmt"

	"github.com/vadimbarashkov/nhood/internal/entity"
)

type entryRepository[E any] interface {
	FindAll(ctx context.Context) ([]*E, error)
	FindByID(ctx context.Context, id int64) (*E, error)
	Save(ctx context.Context, e *E) (*E, error)
	Delete(ctx context.Context, e *E) error
	Count(ctx context.Context) (int64, error)
}

// MergeFunc overwrites every non-id field of existing with the corresponding
// field of incoming and returns existing.
type MergeFunc[E any] func(existing, incoming *E) *E

// EntryUseCase is stateless: every call is one round trip to the repository,
// two for Modify and Delete. The lookup and the mutation that follows are not
// atomic; a concurrent delete in between is reported by the repository.
type EntryUseCase[E any] struct {
	repo  entryRepository[E]
	merge MergeFunc[E]
}

func New[E any](repo entryRepository[E], merge MergeFunc[E]) *EntryUseCase[E] {
	return &EntryUseCase[E]{
		repo:  repo,
		merge: merge,
	}
}

func NewDataURLUseCase(repo entryRepository[entity.DataURL]) *EntryUseCase[entity.DataURL] {
	return New(repo, entity.MergeDataURL)
}

func NewLocationUseCase(repo entryRepository[entity.Location]) *EntryUseCase[entity.Location] {
	return New(repo, entity.MergeLocation)
}

func (uc *EntryUseCase[E]) FindAll(ctx context.Context) ([]*E, error) {
	const op = "usecase.EntryUseCase.FindAll"

	entries, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list entries: %w", op, err)
	}

	if entries == nil {
		entries = []*E{}
	}

	return entries, nil
}

func (uc *EntryUseCase[E]) FindByID(ctx context.Context, id int64) (*E, error) {
	const op = "usecase.EntryUseCase.FindByID"

	e, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to find entry: %w", op, err)
	}

	return e, nil
}

// Create persists a copy of e holding only its non-id fields, so an id set by
// the caller never reaches the store.
func (uc *EntryUseCase[E]) Create(ctx context.Context, e *E) (*E, error) {
	const op = "usecase.EntryUseCase.Create"

	saved, err := uc.repo.Save(ctx, uc.merge(new(E), e))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create entry: %w", op, err)
	}

	return saved, nil
}

// Modify returns entity.ErrEntryNotFound without touching the store when no
// entry has the given id.
func (uc *EntryUseCase[E]) Modify(ctx context.Context, id int64, incoming *E) (*E, error) {
	const op = "usecase.EntryUseCase.Modify"

	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to find entry: %w", op, err)
	}

	modified := uc.merge(existing, incoming)

	if _, err := uc.repo.Save(ctx, modified); err != nil {
		return nil, fmt.Errorf("%s: failed to save entry: %w", op, err)
	}

	return modified, nil
}

// Delete returns the removed entry, or entity.ErrEntryNotFound without touching
// the store when no entry has the given id.
func (uc *EntryUseCase[E]) Delete(ctx context.Context, id int64) (*E, error) {
	const op = "usecase.EntryUseCase.Delete"

	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to find entry: %w", op, err)
	}

	if err := uc.repo.Delete(ctx, existing); err != nil {
		return nil, fmt.Errorf("%s: failed to delete entry: %w", op, err)
	}

	return existing, nil
}

// Seed creates the given entries when the store holds none. It reports whether
// anything was created.
func (uc *EntryUseCase[E]) Seed(ctx context.Context, entries ...*E) (bool, error) {
	const op = "usecase.EntryUseCase.Seed"

	n, err := uc.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: failed to count entries: %w", op, err)
	}

	if n > 0 || len(entries) == 0 {
		return false, nil
	}

	for _, e := range entries {
		if _, err := uc.Create(ctx, e); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}

	return true, nil
}
