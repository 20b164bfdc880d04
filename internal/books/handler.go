// internal/books/handler.go
package books

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"biblioteca/pkg/telemetry"
)

// createBookRequest is the validated body of POST /books. Field shape
// checks live here; the service below only enforces existence invariants.
type createBookRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=200"`
	Author          string `json:"author" validate:"required,min=1,max=100"`
	PublicationYear int    `json:"publication_year" validate:"required,gte=1000,pubyear"`
	Available       *bool  `json:"available"`
}

// updateBookRequest is the body of PUT /books/{id}. Absent fields stay nil
// and are excluded from the update, not zeroed.
type updateBookRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=200"`
	Author          *string `json:"author" validate:"omitempty,min=1,max=100"`
	PublicationYear *int    `json:"publication_year" validate:"omitempty,gte=1000,pubyear"`
	Available       *bool   `json:"available"`
}

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	v := validator.New()
	// publication_year may not be in the future
	_ = v.RegisterValidation("pubyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(time.Now().Year())
	})

	return &Handler{service: service, validate: v}
}

// Routes returns the router for the /books subtree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.handleListBooks)
	r.Post("/", h.handleCreateBook)
	r.Get("/search", h.handleSearchBooks)
	r.Get("/stats", h.handleLibraryStats)

	r.Route("/{bookID}", func(r chi.Router) {
		r.Get("/", h.handleGetBook)
		r.Put("/", h.handleUpdateBook)
		r.Delete("/", h.handleDeleteBook)
	})

	return r
}

func (h *Handler) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

func (h *Handler) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	book, err := h.service.CreateBook(r.Context(), req.Title, req.Author, req.PublicationYear, available)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

func (h *Handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := BookUpdate{
		Title:           req.Title,
		Author:          req.Author,
		PublicationYear: req.PublicationYear,
		Available:       req.Available,
	}

	book, err := h.service.UpdateBook(r.Context(), id, upd)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing search query")
		return
	}

	books, err := h.service.SearchBooks(r.Context(), query)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

func (h *Handler) handleLibraryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.LibraryStats(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// renderError maps service errors onto HTTP statuses. Anything that is not
// a recognized outcome is a storage failure and becomes a generic 500.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBookNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmptyUpdate), errors.Is(err, ErrNoEffect):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		telemetry.FromContext(r.Context()).WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book ID")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
