// internal/books/store.go
package books

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		publication_year INTEGER NOT NULL,
		available BOOLEAN NOT NULL DEFAULT 1
	)
`

// Store provides durable storage for book records behind a single SQLite
// table. All statements are parameterized; values never reach the SQL text.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
}

// OpenStore opens (or creates) the SQLite database at path and ensures the
// books table exists. Safe to call on every startup. Use ":memory:" for an
// isolated throwaway store.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writers at the file level; a single pooled
	// connection keeps an in-memory database from vanishing between
	// statements and is all this service needs.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{
		db:     db,
		tracer: otel.Tracer("biblioteca/books"),
	}

	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Init creates the books table if absent. Idempotent.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts one row and returns the generated identifier.
func (s *Store) Create(ctx context.Context, title, author string, year int, available bool) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "books.create",
		trace.WithAttributes(attribute.String("book.title", title)),
	)
	defer span.End()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO books (title, author, publication_year, available)
		VALUES (?, ?, ?, ?)
	`, title, author, year, available)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	span.SetAttributes(attribute.Int64("book.id", id))
	return id, nil
}

// Get returns the book with the given id, or nil when no row matches.
func (s *Store) Get(ctx context.Context, id int64) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "books.get",
		trace.WithAttributes(attribute.Int64("book.id", id)),
	)
	defer span.End()

	book := &Book{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, author, publication_year, available
		FROM books
		WHERE id = ?
	`, id).Scan(&book.ID, &book.Title, &book.Author, &book.PublicationYear, &book.Available)
	if err != nil {
		if err == sql.ErrNoRows {
			span.SetAttributes(attribute.Bool("book.found", false))
			return nil, nil
		}
		return nil, fmt.Errorf("query book %d: %w", id, err)
	}

	return book, nil
}

// List returns every row in ascending id order.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "books.list")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, author, publication_year, available
		FROM books
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("book.count", len(books)))
	return books, nil
}

// Update applies the supplied fields to the row matching id and reports
// whether a row was modified. An empty update performs no write.
func (s *Store) Update(ctx context.Context, id int64, upd BookUpdate) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "books.update",
		trace.WithAttributes(attribute.Int64("book.id", id)),
	)
	defer span.End()

	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *upd.Author)
	}
	if upd.PublicationYear != nil {
		sets = append(sets, "publication_year = ?")
		args = append(args, *upd.PublicationYear)
	}
	if upd.Available != nil {
		sets = append(sets, "available = ?")
		args = append(args, *upd.Available)
	}

	if len(sets) == 0 {
		span.SetAttributes(attribute.Bool("update.empty", true))
		return false, nil
	}

	args = append(args, id)
	query := "UPDATE books SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update book %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	span.SetAttributes(attribute.Int64("rows.affected", affected))
	return affected > 0, nil
}

// Delete removes the row matching id and reports whether a row existed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "books.delete",
		trace.WithAttributes(attribute.Int64("book.id", id)),
	)
	defer span.End()

	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete book %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	span.SetAttributes(attribute.Int64("rows.affected", affected))
	return affected > 0, nil
}

// Exists reports whether a row with the given id exists without
// materializing the full record.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "books.exists",
		trace.WithAttributes(attribute.Int64("book.id", id)),
	)
	defer span.End()

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("query book %d: %w", id, err)
	}
	return true, nil
}

// Count returns the number of rows in the table.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// Search returns books whose title or author contains the query as a
// substring, ascending id order.
func (s *Store) Search(ctx context.Context, query string) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "books.search")
	defer span.End()

	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, author, publication_year, available
		FROM books
		WHERE title LIKE ? OR author LIKE ?
		ORDER BY id
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("book.count", len(books)))
	return books, nil
}

// Stats counts available and unavailable rows with independent aggregates.
func (s *Store) Stats(ctx context.Context) (*LibraryStats, error) {
	ctx, span := s.tracer.Start(ctx, "books.stats")
	defer span.End()

	stats := &LibraryStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN available THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN available THEN 0 ELSE 1 END), 0)
		FROM books
	`).Scan(&stats.Total, &stats.Available, &stats.Unavailable)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}

	return stats, nil
}

func scanBooks(rows *sql.Rows) ([]Book, error) {
	books := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.Available); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}
