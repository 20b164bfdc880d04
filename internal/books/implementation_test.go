// internal/books/implementation_test.go
package books

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T) Service {
	t.Helper()
	return NewService(setupTestStore(t))
}

func TestCreateBookReturnsStoredRow(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, "Dom Casmurro", "Machado de Assis", 1899, true)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Positive(t, created.ID)

	got, err := svc.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetBookNotFound(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.GetBook(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateBookEmptyRegardlessOfExistence(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	// Missing id: still the empty-update outcome, not NotFound.
	_, err := svc.UpdateBook(ctx, 42, BookUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	created, err := svc.CreateBook(ctx, "1984", "George Orwell", 1949, false)
	require.NoError(t, err)

	_, err = svc.UpdateBook(ctx, created.ID, BookUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestUpdateBookNotFound(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.UpdateBook(context.Background(), 42, BookUpdate{Title: ptr("ghost")})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateBookChangesOnlySuppliedField(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, "1984", "George Orwell", 1949, false)
	require.NoError(t, err)

	updated, err := svc.UpdateBook(ctx, created.ID, BookUpdate{Available: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Available)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Author, updated.Author)
	assert.Equal(t, created.PublicationYear, updated.PublicationYear)
}

func TestDeleteBookIdempotenceOutcomes(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, "1984", "George Orwell", 1949, true)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteBook(ctx, created.ID), ErrBookNotFound)

	_, err = svc.GetBook(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestSearchBooks(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, "O Senhor dos Anéis", "J.R.R. Tolkien", 1954, true)
	require.NoError(t, err)

	found, err := svc.SearchBooks(ctx, "Senhor")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "J.R.R. Tolkien", found[0].Author)
}

func TestLibraryStats(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, "a", "x", 2000, true)
	require.NoError(t, err)
	_, err = svc.CreateBook(ctx, "b", "y", 2001, false)
	require.NoError(t, err)

	stats, err := svc.LibraryStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, LibraryStats{Total: 2, Available: 1, Unavailable: 1}, *stats)
}

// The end-to-end catalog scenario: create, read back, flip availability,
// delete, observe NotFound.
func TestCatalogScenario(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, "1984", "George Orwell", 1949, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := svc.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1984", got.Title)
	assert.Equal(t, "George Orwell", got.Author)
	assert.Equal(t, 1949, got.PublicationYear)
	assert.False(t, got.Available)

	updated, err := svc.UpdateBook(ctx, created.ID, BookUpdate{Available: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Available)
	assert.Equal(t, "1984", updated.Title)

	require.NoError(t, svc.DeleteBook(ctx, created.ID))

	_, err = svc.GetBook(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestEnsureSeeded(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	seeded, err := EnsureSeeded(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 3, seeded)

	// Second run finds a populated table and leaves it alone.
	seeded, err = EnsureSeeded(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	books, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Dom Casmurro", books[0].Title)
	assert.False(t, books[1].Available)
}
