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

// InventoryService tracks stock levels and raises low-stock alerts.
type InventoryService struct {
	items      repository.InventoryRepository
	dispatcher events.Dispatcher
}

// NewInventoryService builds the service.
func NewInventoryService(items repository.InventoryRepository, dispatcher events.Dispatcher) *InventoryService {
	return &InventoryService{items: items, dispatcher: dispatcher}
}

// List returns all stocked items.
func (s *InventoryService) List(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// AdjustStock applies a stock delta and alerts when the item drops to or
// below its threshold.
func (s *InventoryService) AdjustStock(ctx context.Context, itemID string, delta float64) (*domain.InventoryItem, error) {
	item, err := s.items.AdjustStock(ctx, itemID, delta)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if item.LowStock() {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventInventoryAlert,
			Timestamp: time.Now().UTC(),
			Payload: events.InventoryAlertPayload{
				ItemID:   item.ID,
				Name:     item.Name,
				Stock:    item.Stock,
				MinStock: item.MinStock,
				Unit:     item.Unit,
			},
		})
	}
	return item, nil
}
