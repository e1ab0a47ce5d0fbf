package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

// BookRepository defines the persistence contract for catalogue entries.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	FindAll(ctx context.Context) ([]domain.Book, error)
	Update(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
}

// BookInput carries the editable fields of a catalogue entry.
type BookInput struct {
	Title       string
	Description string
	Category    string
	Trending    bool
	CoverImage  string
	OldPrice    float64
	NewPrice    float64
}

type BookService interface {
	Create(ctx context.Context, in BookInput) (*domain.Book, error)
	Get(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	Update(ctx context.Context, id string, in BookInput) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
}
