package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/ports"
)

type BookHandler struct {
	books ports.BookService
}

func NewBookHandler(books ports.BookService) *BookHandler {
	return &BookHandler{books: books}
}

type bookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required"`
	Trending    bool    `json:"trending"`
	CoverImage  string  `json:"cover_image"`
	OldPrice    float64 `json:"old_price" validate:"gte=0"`
	NewPrice    float64 `json:"new_price" validate:"required,gt=0"`
}

func (r bookRequest) input() ports.BookInput {
	return ports.BookInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Trending:    r.Trending,
		CoverImage:  r.CoverImage,
		OldPrice:    r.OldPrice,
		NewPrice:    r.NewPrice,
	}
}

// List returns the full catalogue. Public.
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.books.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list books"})
	}
	if books == nil {
		books = []domain.Book{}
	}
	return c.JSON(http.StatusOK, books)
}

// Get returns a single catalogue entry. Public.
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.books.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load book"})
	}
	return c.JSON(http.StatusOK, book)
}

// Create adds a catalogue entry. Admin only.
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	book, err := h.books.Create(c.Request().Context(), req.input())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create book"})
	}
	return c.JSON(http.StatusCreated, book)
}

// Update replaces a catalogue entry's editable fields. Admin only.
func (h *BookHandler) Update(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	book, err := h.books.Update(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update book"})
	}
	return c.JSON(http.StatusOK, book)
}

// Delete removes a catalogue entry. Admin only.
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.books.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete book"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}
