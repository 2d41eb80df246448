package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/ws"
)

type recordingSender struct {
	mu     sync.Mutex
	frames []ws.Event
}

func (r *recordingSender) WriteJSON(v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, v.(ws.Event))
	return nil
}

func (r *recordingSender) has(eventType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.frames {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

func connect(t *testing.T, registry *ws.Registry, username string, role domain.Role) *recordingSender {
	t.Helper()
	sender := &recordingSender{}
	conn := ws.NewConnection(uuid.NewString(), username, username, role, sender)
	require.NoError(t, registry.Register(conn))
	return sender
}

func newNotificationFixture(t *testing.T) (*ws.Registry, events.Dispatcher) {
	t.Helper()
	registry := ws.NewRegistry(zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationService(dispatcher, registry, zap.NewNop()).RegisterHandlers()
	return registry, dispatcher
}

func publish(t *testing.T, d events.Dispatcher, eventType events.EventType, payload interface{}) {
	t.Helper()
	require.NoError(t, d.Publish(context.Background(), events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}))
}

func TestOrderCreatedReachesKitchenWaiterAdmin(t *testing.T) {
	registry, dispatcher := newNotificationFixture(t)
	kitchen := connect(t, registry, "cook", domain.RoleKitchen)
	waiter := connect(t, registry, "alice", domain.RoleWaiter)
	admin := connect(t, registry, "boss", domain.RoleAdmin)
	client := connect(t, registry, "guest", domain.RoleClient)

	publish(t, dispatcher, events.EventOrderCreated, events.OrderPayload{OrderID: "o1"})

	assert.True(t, kitchen.has("order_created"))
	assert.True(t, waiter.has("order_created"))
	assert.True(t, admin.has("order_created"))
	assert.False(t, client.has("order_created"))
}

func TestOrderReadySkipsKitchen(t *testing.T) {
	registry, dispatcher := newNotificationFixture(t)
	kitchen := connect(t, registry, "cook", domain.RoleKitchen)
	waiter := connect(t, registry, "alice", domain.RoleWaiter)

	publish(t, dispatcher, events.EventOrderReady, events.OrderPayload{OrderID: "o1", Status: domain.OrderStatusReady})

	assert.False(t, kitchen.has("order_ready"))
	assert.True(t, waiter.has("order_ready"))
}

func TestInventoryAlertSkipsWaiter(t *testing.T) {
	registry, dispatcher := newNotificationFixture(t)
	kitchen := connect(t, registry, "cook", domain.RoleKitchen)
	waiter := connect(t, registry, "alice", domain.RoleWaiter)

	publish(t, dispatcher, events.EventInventoryAlert, events.InventoryAlertPayload{Name: "flour"})

	assert.True(t, kitchen.has("inventory_alert"))
	assert.False(t, waiter.has("inventory_alert"))
}

func TestTableStatusChangedReachesWaiterAndAdmin(t *testing.T) {
	registry, dispatcher := newNotificationFixture(t)
	waiter := connect(t, registry, "alice", domain.RoleWaiter)
	admin := connect(t, registry, "boss", domain.RoleAdmin)
	kitchen := connect(t, registry, "cook", domain.RoleKitchen)

	publish(t, dispatcher, events.EventTableStatusChanged, events.TableStatusChangedPayload{Number: 4})

	assert.True(t, waiter.has("table_status_changed"))
	assert.True(t, admin.has("table_status_changed"))
	assert.False(t, kitchen.has("table_status_changed"))
}

func TestNotifySubjectTargetsEveryDeviceOfOneSubject(t *testing.T) {
	registry := ws.NewRegistry(zap.NewNop())
	service := NewNotificationService(nil, registry, zap.NewNop())

	phone := &recordingSender{}
	tablet := &recordingSender{}
	other := &recordingSender{}
	require.NoError(t, registry.Register(ws.NewConnection("c1", "user-1", "alice", domain.RoleWaiter, phone)))
	require.NoError(t, registry.Register(ws.NewConnection("c2", "user-1", "alice", domain.RoleWaiter, tablet)))
	require.NoError(t, registry.Register(ws.NewConnection("c3", "user-2", "bob", domain.RoleWaiter, other)))

	service.NotifySubject("user-1", map[string]string{"result": "ok"})

	assert.True(t, phone.has("action_result"))
	assert.True(t, tablet.has("action_result"))
	assert.False(t, other.has("action_result"))
}
