package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/repository"
	apperrors "github.com/spec-kit/restaurant-service/pkg/util"
)

// OrderService coordinates the order workflow and publishes domain events.
type OrderService struct {
	orders     repository.OrderRepository
	tables     repository.TableRepository
	dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, tables repository.TableRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, tables: tables, dispatcher: dispatcher}
}

// Create persists a new order and announces it.
func (s *OrderService) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if len(order.Items) == 0 {
		return nil, apperrors.NewValidationError("order requires at least one item", nil)
	}

	table, err := s.tables.GetByID(ctx, order.TableID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	order.Status = domain.OrderStatusPending
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderCreated,
		Timestamp: time.Now().UTC(),
		Payload: events.OrderPayload{
			OrderID:     order.ID,
			TableID:     order.TableID,
			TableNumber: table.Number,
			Status:      order.Status,
			ItemCount:   len(order.Items),
		},
	})
	return order, nil
}

// UpdateStatus transitions an order and announces the change. A transition
// to READY additionally emits the waiter-facing ready event.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown order status", map[string]any{"status": status})
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	oldStatus := order.Status

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	order.Status = status

	now := time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderStatusChanged,
		Timestamp: now,
		Payload: events.OrderStatusChangedPayload{
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})

	if status == domain.OrderStatusReady {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOrderReady,
			Timestamp: now,
			Payload: events.OrderPayload{
				OrderID:   order.ID,
				TableID:   order.TableID,
				Status:    status,
				ItemCount: len(order.Items),
			},
		})
	}
	return order, nil
}

// ListOpen returns orders still moving through the kitchen.
func (s *OrderService) ListOpen(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListOpen(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}
