package ws

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/domain"
)

// fakeStream scripts inbound frames and records everything written back.
type fakeStream struct {
	mu      sync.Mutex
	inbound []InboundFrame
	written []Event
	closed  bool
}

func (f *fakeStream) ReadJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inbound) == 0 {
		return io.EOF
	}
	frame := f.inbound[0]
	f.inbound = f.inbound[1:]
	*(v.(*InboundFrame)) = frame
	return nil
}

func (f *fakeStream) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, v.(Event))
	return nil
}

func (f *fakeStream) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeStream) writtenTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.written))
	for _, ev := range f.written {
		out = append(out, ev.Type)
	}
	return out
}

// fakeDirectory serves a fixed set of users.
type fakeDirectory struct {
	users map[string]*domain.User
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func newTestGateway(t *testing.T, users ...*domain.User) (*Gateway, *Registry, *auth.TokenManager) {
	t.Helper()
	dir := &fakeDirectory{users: map[string]*domain.User{}}
	for _, u := range users {
		dir.users[u.ID] = u
	}
	tm := auth.NewTokenManager("test-secret", 30)
	registry := NewRegistry(zap.NewNop())
	gateway := NewGateway(registry, tm, dir, zap.NewNop(), time.Second)
	return gateway, registry, tm
}

func issueFor(t *testing.T, tm *auth.TokenManager, user *domain.User) string {
	t.Helper()
	token, _, err := tm.Issue(user.ID, user.Username, user.Role)
	require.NoError(t, err)
	return token
}

func waiter() *domain.User {
	return &domain.User{ID: "user-1", Username: "alice", Role: domain.RoleWaiter, Status: domain.UserStatusActive}
}

func admin() *domain.User {
	return &domain.User{ID: "user-9", Username: "boss", Role: domain.RoleAdmin, Status: domain.UserStatusActive}
}

func TestServeRejectsInvalidToken(t *testing.T) {
	gateway, registry, _ := newTestGateway(t)
	stream := &fakeStream{}

	gateway.serve(stream, "garbage")

	require.Len(t, stream.written, 1)
	assert.Equal(t, "error", stream.written[0].Type)
	assert.Equal(t, "Authentication failed or connection error", stream.written[0].Message)
	assert.True(t, stream.closed)
	assert.Equal(t, 0, registry.Stats().TotalConnections)
}

func TestServeRejectsUnknownSubject(t *testing.T) {
	gateway, registry, tm := newTestGateway(t)
	stream := &fakeStream{}

	// Valid token, but the account behind it is gone.
	gateway.serve(stream, issueFor(t, tm, waiter()))

	require.Len(t, stream.written, 1)
	assert.Equal(t, "error", stream.written[0].Type)
	assert.Equal(t, 0, registry.Stats().TotalConnections)
}

func TestServeWelcomesThenCleansUp(t *testing.T) {
	user := waiter()
	gateway, registry, tm := newTestGateway(t, user)
	stream := &fakeStream{}

	gateway.serve(stream, issueFor(t, tm, user))

	require.NotEmpty(t, stream.written)
	assert.Equal(t, "connection_established", stream.written[0].Type)
	assert.True(t, stream.closed)
	// The read loop ended, so the connection must be gone.
	assert.Equal(t, 0, registry.Stats().TotalConnections)
}

func TestServePingPong(t *testing.T) {
	user := waiter()
	gateway, _, tm := newTestGateway(t, user)
	stream := &fakeStream{inbound: []InboundFrame{{Action: "ping"}}}

	gateway.serve(stream, issueFor(t, tm, user))

	assert.Equal(t, []string{"connection_established", "pong"}, stream.writtenTypes())
}

func TestServeUnknownActionIsNonFatal(t *testing.T) {
	user := waiter()
	gateway, _, tm := newTestGateway(t, user)
	stream := &fakeStream{inbound: []InboundFrame{
		{Action: "dance"},
		{Action: "ping"},
	}}

	gateway.serve(stream, issueFor(t, tm, user))

	require.Len(t, stream.written, 3)
	assert.Equal(t, "error", stream.written[1].Type)
	assert.Equal(t, "Unknown action: dance", stream.written[1].Message)
	// The connection survived the bad frame.
	assert.Equal(t, "pong", stream.written[2].Type)
}

func TestAdminActionsIgnoredForNonAdmin(t *testing.T) {
	user := waiter()
	gateway, _, tm := newTestGateway(t, user)
	stream := &fakeStream{inbound: []InboundFrame{
		{Action: "get_stats"},
		{Action: "get_connected_users"},
		{Action: "ping"},
	}}

	gateway.serve(stream, issueFor(t, tm, user))

	// No error frame, no stats frame. The actions simply do not exist for
	// this role.
	assert.Equal(t, []string{"connection_established", "pong"}, stream.writtenTypes())
}

func TestAdminGetStats(t *testing.T) {
	user := admin()
	gateway, _, tm := newTestGateway(t, user)
	stream := &fakeStream{inbound: []InboundFrame{{Action: "get_stats"}}}

	gateway.serve(stream, issueFor(t, tm, user))

	require.Len(t, stream.written, 2)
	assert.Equal(t, "stats", stream.written[1].Type)
	stats, ok := stream.written[1].Data.(Stats)
	require.True(t, ok)
	assert.Equal(t, 1, stats.TotalConnections)
	assert.Equal(t, 1, stats.ConnectionsByRole[domain.RoleAdmin])
}

func TestAdminGetConnectedUsers(t *testing.T) {
	user := admin()
	gateway, registry, tm := newTestGateway(t, user)

	register(t, registry, "c-other", "alice", domain.RoleWaiter)

	stream := &fakeStream{inbound: []InboundFrame{{Action: "get_connected_users"}}}
	gateway.serve(stream, issueFor(t, tm, user))

	require.Len(t, stream.written, 2)
	assert.Equal(t, "connected_users", stream.written[1].Type)
	payload, ok := stream.written[1].Data.(map[string]interface{})
	require.True(t, ok)
	users, ok := payload["users"].([]ConnectedUser)
	require.True(t, ok)
	assert.Len(t, users, 2)
}
