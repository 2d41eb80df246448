package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/ws"
)

// Role routing for each event kind. Kitchen and waiters learn about new
// orders, waiters pick up ready orders and table changes, kitchen hears
// stock alerts; admins see everything.
var (
	orderCreatedRoles   = []domain.Role{domain.RoleKitchen, domain.RoleWaiter, domain.RoleAdmin}
	orderStatusRoles    = []domain.Role{domain.RoleKitchen, domain.RoleWaiter, domain.RoleAdmin}
	orderReadyRoles     = []domain.Role{domain.RoleWaiter, domain.RoleAdmin}
	tableStatusRoles    = []domain.Role{domain.RoleWaiter, domain.RoleAdmin}
	inventoryAlertRoles = []domain.Role{domain.RoleKitchen, domain.RoleAdmin}
)

// NotificationService bridges domain events onto the live connection
// registry as role-targeted broadcasts.
type NotificationService struct {
	dispatcher events.Dispatcher
	registry   *ws.Registry
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, registry *ws.Registry, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderCreated, n.broadcastTo(orderCreatedRoles))
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.broadcastTo(orderStatusRoles))
	n.dispatcher.Subscribe(events.EventOrderReady, n.broadcastTo(orderReadyRoles))
	n.dispatcher.Subscribe(events.EventTableStatusChanged, n.broadcastTo(tableStatusRoles))
	n.dispatcher.Subscribe(events.EventInventoryAlert, n.broadcastTo(inventoryAlertRoles))
}

func (n *NotificationService) broadcastTo(roles []domain.Role) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		n.logger.Debug("broadcasting event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
		n.registry.BroadcastToRoles(roles, ws.NewEvent(string(event.Type), event.Payload))
		return nil
	}
}

// NotifySubject pushes an action result to every connection of one subject,
// e.g. a user connected from multiple devices.
func (n *NotificationService) NotifySubject(subjectID string, data interface{}) {
	n.registry.SendToSubject(subjectID, ws.NewEvent("action_result", data))
}
