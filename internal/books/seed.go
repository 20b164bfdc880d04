// internal/books/seed.go
package books

import (
	"context"
	"fmt"
)

// SeedBooks returns the example records inserted into an empty catalog.
func SeedBooks() []Book {
	return []Book{
		{Title: "Dom Casmurro", Author: "Machado de Assis", PublicationYear: 1899, Available: true},
		{Title: "1984", Author: "George Orwell", PublicationYear: 1949, Available: false},
		{Title: "O Senhor dos Anéis", Author: "J.R.R. Tolkien", PublicationYear: 1954, Available: true},
	}
}

// EnsureSeeded inserts the example records when the table is empty and
// returns the number of rows inserted. A non-empty table is left alone.
func EnsureSeeded(ctx context.Context, store *Store) (int, error) {
	count, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for _, b := range SeedBooks() {
		if _, err := store.Create(ctx, b.Title, b.Author, b.PublicationYear, b.Available); err != nil {
			return 0, fmt.Errorf("seed %q: %w", b.Title, err)
		}
	}
	return len(SeedBooks()), nil
}
