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

// TableService manages table state and publishes status changes.
type TableService struct {
	tables     repository.TableRepository
	dispatcher events.Dispatcher
}

// NewTableService builds the service.
func NewTableService(tables repository.TableRepository, dispatcher events.Dispatcher) *TableService {
	return &TableService{tables: tables, dispatcher: dispatcher}
}

// List returns all tables.
func (s *TableService) List(ctx context.Context) ([]domain.Table, error) {
	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tables, nil
}

// UpdateStatus transitions a table and announces the change.
func (s *TableService) UpdateStatus(ctx context.Context, tableID string, status domain.TableStatus) (*domain.Table, error) {
	switch status {
	case domain.TableStatusAvailable, domain.TableStatusOccupied, domain.TableStatusReserved:
	default:
		return nil, apperrors.NewValidationError("unknown table status", map[string]any{"status": status})
	}

	table, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	oldStatus := table.Status

	if err := s.tables.UpdateStatus(ctx, tableID, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	table.Status = status

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTableStatusChanged,
		Timestamp: time.Now().UTC(),
		Payload: events.TableStatusChangedPayload{
			TableID:   table.ID,
			Number:    table.Number,
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return table, nil
}
