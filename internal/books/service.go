// internal/books/service.go
package books

import (
	"context"
)

// Service defines the interface for the book catalog service.
type Service interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id int64) (*Book, error)
	CreateBook(ctx context.Context, title, author string, year int, available bool) (*Book, error)
	UpdateBook(ctx context.Context, id int64, upd BookUpdate) (*Book, error)
	DeleteBook(ctx context.Context, id int64) error
	SearchBooks(ctx context.Context, query string) ([]Book, error)
	LibraryStats(ctx context.Context) (*LibraryStats, error)
}
