// internal/books/implementation.go
package books

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBookNotFound is returned when the referenced id has no row.
	ErrBookNotFound = errors.New("book not found")
	// ErrEmptyUpdate is returned when an update supplies no fields.
	ErrEmptyUpdate = errors.New("no fields to update")
	// ErrNoEffect is returned when a mutation on a row that passed the
	// existence check affected zero rows (the row vanished in between).
	ErrNoEffect = errors.New("operation affected no rows")
)

// service implements the Service interface on top of a Store.
type service struct {
	store *Store
}

// NewService creates a new book catalog service instance.
func NewService(store *Store) Service {
	return &service{store: store}
}

// ListBooks returns every book in the catalog.
func (s *service) ListBooks(ctx context.Context) ([]Book, error) {
	return s.store.List(ctx)
}

// GetBook returns a single book by id.
func (s *service) GetBook(ctx context.Context, id int64) (*Book, error) {
	book, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
	}
	return book, nil
}

// CreateBook inserts a book and returns the stored row. Input is assumed to
// be validated at the transport boundary; only the store can fail here.
func (s *service) CreateBook(ctx context.Context, title, author string, year int, available bool) (*Book, error) {
	id, err := s.store.Create(ctx, title, author, year, available)
	if err != nil {
		return nil, err
	}

	// Re-read so the response reflects exactly what was persisted.
	book, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %d vanished after insert: %w", id, ErrNoEffect)
	}
	return book, nil
}

// UpdateBook applies a partial update and returns the updated row. An empty
// update set is rejected before the existence check, so it reports the same
// outcome whether or not the id exists.
func (s *service) UpdateBook(ctx context.Context, id int64, upd BookUpdate) (*Book, error) {
	if upd.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
	}

	ok, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("update book %d: %w", id, ErrNoEffect)
	}

	book, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
	}
	return book, nil
}

// DeleteBook removes a book permanently.
func (s *service) DeleteBook(ctx context.Context, id int64) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("book %d: %w", id, ErrBookNotFound)
	}

	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete book %d: %w", id, ErrNoEffect)
	}
	return nil
}

// SearchBooks finds books whose title or author contains the query.
func (s *service) SearchBooks(ctx context.Context, query string) ([]Book, error) {
	return s.store.Search(ctx, query)
}

// LibraryStats summarizes availability across the catalog.
func (s *service) LibraryStats(ctx context.Context) (*LibraryStats, error) {
	return s.store.Stats(ctx)
}
