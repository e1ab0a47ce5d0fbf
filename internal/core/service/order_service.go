package service

import (
	"context"
	"errors"
	"time"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
	"github.com/bookhaven/bookstore-api/internal/core/ports"
)

// OrderService implements order placement and management. Ownership checks
// for the customer-facing listing live here, not in the handlers.
type OrderService struct {
	orders ports.OrderRepository
	users  ports.UserRepository
}

func NewOrderService(orders ports.OrderRepository, users ports.UserRepository) *OrderService {
	return &OrderService{orders: orders, users: users}
}

func (s *OrderService) Place(ctx context.Context, in ports.PlaceOrderInput) (*domain.Order, error) {
	now := time.Now().UTC()
	order := &domain.Order{
		Name:       in.Name,
		Email:      in.Email,
		Address:    in.Address,
		Phone:      in.Phone,
		ProductIDs: in.ProductIDs,
		TotalPrice: in.TotalPrice,
		Status:     domain.OrderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.orders.Create(ctx, order)
}

// ListByEmail returns the orders placed under email. Admins may list any
// mailbox; everyone else only their own, resolved through the account record
// rather than trusting the requested email.
func (s *OrderService) ListByEmail(ctx context.Context, requester domain.Principal, email string) ([]domain.Order, error) {
	if requester.Role != domain.RoleAdmin {
		account, err := s.users.FindByUsername(ctx, requester.Username)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, err
		}
		if account.Email != email {
			return nil, domain.ErrForbidden
		}
	}
	return s.orders.FindByEmail(ctx, email)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.FindAll(ctx)
}

// UpdateStatus applies a lifecycle transition, rejecting invalid ones.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidTransition
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}
	return s.orders.UpdateStatus(ctx, id, status)
}
