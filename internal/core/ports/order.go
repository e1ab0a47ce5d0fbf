package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

// OrderRepository defines the persistence contract for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// PlaceOrderInput carries the fields a customer submits at checkout.
type PlaceOrderInput struct {
	Name       string
	Email      string
	Address    domain.Address
	Phone      string
	ProductIDs []string
	TotalPrice float64
}

type OrderService interface {
	Place(ctx context.Context, in PlaceOrderInput) (*domain.Order, error)
	// ListByEmail returns the orders for email. Non-admin requesters may
	// only list their own orders; anything else is ErrForbidden.
	ListByEmail(ctx context.Context, requester domain.Principal, email string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}
