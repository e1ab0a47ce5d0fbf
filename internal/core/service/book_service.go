package service

import (
	"context"
	"time"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/ports"
)

// BookService implements catalogue management. Reads are public; writes are
// gated behind the manage-books permission at the routing layer.
type BookService struct {
	books ports.BookRepository
}

func NewBookService(books ports.BookRepository) *BookService {
	return &BookService{books: books}
}

func (s *BookService) Create(ctx context.Context, in ports.BookInput) (*domain.Book, error) {
	now := time.Now().UTC()
	book := &domain.Book{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Trending:    in.Trending,
		CoverImage:  in.CoverImage,
		OldPrice:    in.OldPrice,
		NewPrice:    in.NewPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.books.Create(ctx, book)
}

func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.books.FindAll(ctx)
}

func (s *BookService) Update(ctx context.Context, id string, in ports.BookInput) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	book.Title = in.Title
	book.Description = in.Description
	book.Category = in.Category
	book.Trending = in.Trending
	book.CoverImage = in.CoverImage
	book.OldPrice = in.OldPrice
	book.NewPrice = in.NewPrice
	book.UpdatedAt = time.Now().UTC()
	return s.books.Update(ctx, book)
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	return s.books.Delete(ctx, id)
}
