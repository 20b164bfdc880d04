// internal/books/domain.go
package books

// Book represents one row of the books table.
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
	Available       bool   `json:"available"`
}

// BookUpdate carries the fields of a partial update. A nil field was not
// supplied by the caller and keeps its stored value. The struct itself is
// the allow-list: there is no way to address any other column through it.
type BookUpdate struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	PublicationYear *int    `json:"publication_year"`
	Available       *bool   `json:"available"`
}

// IsEmpty reports whether no field was supplied.
func (u BookUpdate) IsEmpty() bool {
	return u.Title == nil && u.Author == nil && u.PublicationYear == nil && u.Available == nil
}

// LibraryStats summarizes the catalog. Unavailable is counted on its own,
// never derived from the available result set.
type LibraryStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
}
