package ws

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// ErrDuplicateConnection rejects a second registration under a live
// connection ID. The first registration is left untouched.
var ErrDuplicateConnection = errors.New("duplicate connection")

// Sender writes one JSON frame to a live client. *websocket.Conn satisfies
// it; tests substitute fakes.
type Sender interface {
	WriteJSON(v interface{}) error
}

// Connection is one live streaming session. Once registered it is owned by
// the Registry; writes go through send, which serializes access to the
// underlying socket.
type Connection struct {
	ID          string
	SubjectID   string
	Username    string
	Role        domain.Role
	ConnectedAt time.Time

	sender  Sender
	writeMu sync.Mutex
}

// NewConnection wraps an accepted stream with its authenticated identity.
func NewConnection(id, subjectID, username string, role domain.Role, sender Sender) *Connection {
	return &Connection{
		ID:          id,
		SubjectID:   subjectID,
		Username:    username,
		Role:        role,
		ConnectedAt: time.Now().UTC(),
		sender:      sender,
	}
}

func (c *Connection) send(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.sender.WriteJSON(v)
}

// Stats is a point-in-time snapshot of the registry.
type Stats struct {
	TotalConnections  int                 `json:"total_connections"`
	ConnectionsByRole map[domain.Role]int `json:"connections_by_role"`
	UniqueSubjects    int                 `json:"unique_subjects"`
}

// ConnectedUser summarizes one subject's live presence.
type ConnectedUser struct {
	SubjectID   string      `json:"user_id"`
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
	ConnectedAt time.Time   `json:"connected_at"`
	Connections int         `json:"connection_count"`
}

// Registry tracks every live streaming connection under three views: by
// connection ID, by subject and by role. All mutations hold one lock so a
// connection is never observable in some views but not others.
type Registry struct {
	logger *zap.Logger

	mu        sync.RWMutex
	byID      map[string]*Connection
	bySubject map[string]map[string]*Connection
	byRole    map[domain.Role]map[string]*Connection
}

// NewRegistry builds an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	byRole := make(map[domain.Role]map[string]*Connection, len(domain.Roles))
	for _, role := range domain.Roles {
		byRole[role] = make(map[string]*Connection)
	}
	return &Registry{
		logger:    logger,
		byID:      make(map[string]*Connection),
		bySubject: make(map[string]map[string]*Connection),
		byRole:    byRole,
	}
}

// Register adds the connection to all views atomically and sends the single
// welcome acknowledgment before returning. A write failure on the welcome
// frame unregisters the connection and surfaces the error.
func (r *Registry) Register(conn *Connection) error {
	r.mu.Lock()
	if _, exists := r.byID[conn.ID]; exists {
		r.mu.Unlock()
		return ErrDuplicateConnection
	}
	r.byID[conn.ID] = conn
	subjectConns, ok := r.bySubject[conn.SubjectID]
	if !ok {
		subjectConns = make(map[string]*Connection)
		r.bySubject[conn.SubjectID] = subjectConns
	}
	subjectConns[conn.ID] = conn
	roleConns, ok := r.byRole[conn.Role]
	if !ok {
		roleConns = make(map[string]*Connection)
		r.byRole[conn.Role] = roleConns
	}
	roleConns[conn.ID] = conn
	total := len(r.byID)
	r.mu.Unlock()

	r.logger.Info("connection registered",
		zap.String("connection_id", conn.ID),
		zap.String("subject_id", conn.SubjectID),
		zap.String("username", conn.Username),
		zap.String("role", string(conn.Role)),
		zap.Int("total_connections", total))

	welcome := NewEvent("connection_established", map[string]interface{}{
		"message": fmt.Sprintf("Welcome %s! You're connected to real-time updates.", conn.Username),
		"role":    conn.Role,
	})
	if err := conn.send(welcome); err != nil {
		r.Unregister(conn.ID)
		return err
	}
	return nil
}

// Unregister removes the connection from all views atomically. It is
// idempotent: disconnect and failed-send paths race to clean up the same
// connection, and the loser must see a no-op.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	conn, ok := r.byID[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.byID, connID)
	if subjectConns, ok := r.bySubject[conn.SubjectID]; ok {
		delete(subjectConns, connID)
		if len(subjectConns) == 0 {
			delete(r.bySubject, conn.SubjectID)
		}
	}
	if roleConns, ok := r.byRole[conn.Role]; ok {
		delete(roleConns, connID)
	}
	remaining := len(r.byID)
	r.mu.Unlock()

	r.logger.Info("connection unregistered",
		zap.String("connection_id", connID),
		zap.String("username", conn.Username),
		zap.Int("remaining_connections", remaining))
}

// SendTo delivers one event to one connection, best effort. A failed write
// unregisters the connection; a dead connection heals itself out of the
// registry without a separate reaper.
func (r *Registry) SendTo(connID string, event Event) error {
	r.mu.RLock()
	conn, ok := r.byID[connID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := conn.send(event); err != nil {
		r.logger.Warn("send failed, dropping connection",
			zap.String("connection_id", connID), zap.Error(err))
		r.Unregister(connID)
		return err
	}
	return nil
}

// SendToSubject delivers the event to every connection of the subject.
// Per-connection failures are isolated and only unregister the failed
// connection.
func (r *Registry) SendToSubject(subjectID string, event Event) {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.bySubject[subjectID]))
	for _, conn := range r.bySubject[subjectID] {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	r.deliver(conns, event)
}

// BroadcastToRole delivers the event to every connection currently in the
// role bucket. Connections registering mid-broadcast may or may not
// receive it.
func (r *Registry) BroadcastToRole(role domain.Role, event Event) {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.byRole[role]))
	for _, conn := range r.byRole[role] {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	r.deliver(conns, event)
}

// BroadcastToRoles delivers the event to every connection in any of the
// given role buckets.
func (r *Registry) BroadcastToRoles(roles []domain.Role, event Event) {
	for _, role := range roles {
		r.BroadcastToRole(role, event)
	}
}

// BroadcastToAll delivers the event to every live connection.
func (r *Registry) BroadcastToAll(event Event) {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.byID))
	for _, conn := range r.byID {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	r.deliver(conns, event)
}

// deliver sends to a snapshot of connections, unregistering any that fail.
func (r *Registry) deliver(conns []*Connection, event Event) {
	var failed []string
	for _, conn := range conns {
		if err := conn.send(event); err != nil {
			r.logger.Warn("delivery failed",
				zap.String("connection_id", conn.ID),
				zap.String("event_type", event.Type),
				zap.Error(err))
			failed = append(failed, conn.ID)
		}
	}
	for _, id := range failed {
		r.Unregister(id)
	}
}

// Stats returns a consistent snapshot of connection counts.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byRole := make(map[domain.Role]int, len(r.byRole))
	for role, conns := range r.byRole {
		byRole[role] = len(conns)
	}
	return Stats{
		TotalConnections:  len(r.byID),
		ConnectionsByRole: byRole,
		UniqueSubjects:    len(r.bySubject),
	}
}

// ConnectedUsers lists currently connected subjects, deduplicated, with
// their connection counts. A non-nil role filters the listing.
func (r *Registry) ConnectedUsers(role *domain.Role) []ConnectedUser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]ConnectedUser, 0, len(r.bySubject))
	seen := make(map[string]struct{}, len(r.bySubject))
	for _, conn := range r.byID {
		if _, ok := seen[conn.SubjectID]; ok {
			continue
		}
		if role != nil && conn.Role != *role {
			continue
		}
		users = append(users, ConnectedUser{
			SubjectID:   conn.SubjectID,
			Username:    conn.Username,
			Role:        conn.Role,
			ConnectedAt: conn.ConnectedAt,
			Connections: len(r.bySubject[conn.SubjectID]),
		})
		seen[conn.SubjectID] = struct{}{}
	}
	return users
}
