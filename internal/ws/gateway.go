package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/domain"
)

// UserDirectory resolves an authenticated subject to its account. Backed by
// the redis-cached user repository in production.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// clientStream is the subset of the websocket connection the gateway
// drives. *websocket.Conn satisfies it; tests substitute scripted fakes.
type clientStream interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// InboundFrame is one client-to-server message.
type InboundFrame struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Recognized inbound actions.
const (
	actionPing              = "ping"
	actionGetStats          = "get_stats"
	actionGetConnectedUsers = "get_connected_users"
)

// Gateway accepts streaming connections, authenticates them, registers them
// and drives their read loops.
type Gateway struct {
	registry     *Registry
	tokens       *auth.TokenManager
	users        UserDirectory
	logger       *zap.Logger
	writeTimeout time.Duration
	authTimeout  time.Duration
}

// NewGateway builds a gateway over the given registry and collaborators.
func NewGateway(registry *Registry, tokens *auth.TokenManager, users UserDirectory, logger *zap.Logger, writeTimeout time.Duration) *Gateway {
	return &Gateway{
		registry:     registry,
		tokens:       tokens,
		users:        users,
		logger:       logger,
		writeTimeout: writeTimeout,
		authTimeout:  5 * time.Second,
	}
}

// UpgradeMiddleware rejects plain HTTP requests on the streaming route.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Handler returns the fiber handler completing the websocket upgrade. The
// credential travels as the `token` query parameter of the handshake.
func (g *Gateway) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		g.serve(c, c.Query("token"))
	})
}

// serve runs one connection through its full lifecycle: authenticate,
// register, read until termination, clean up. Unregistration runs on every
// exit path, including panics out of the read loop.
func (g *Gateway) serve(stream clientStream, token string) {
	defer stream.Close() //nolint:errcheck

	claims, err := g.tokens.Decode(token)
	if err != nil {
		g.rejectHandshake(stream, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.authTimeout)
	user, err := g.users.GetByID(ctx, claims.Subject)
	cancel()
	if err != nil {
		g.rejectHandshake(stream, err)
		return
	}

	conn := NewConnection(uuid.NewString(), user.ID, user.Username, user.Role, g.timedSender(stream))
	if err := g.registry.Register(conn); err != nil {
		g.logger.Warn("registration failed",
			zap.String("subject_id", user.ID), zap.Error(err))
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error("panic in connection handler",
				zap.String("connection_id", conn.ID), zap.Any("panic", rec))
		}
		g.registry.Unregister(conn.ID)
	}()

	g.readLoop(conn, stream)
}

// readLoop processes inbound frames in arrival order until the stream ends.
func (g *Gateway) readLoop(conn *Connection, stream clientStream) {
	for {
		var frame InboundFrame
		if err := stream.ReadJSON(&frame); err != nil {
			g.logger.Debug("read loop ended",
				zap.String("connection_id", conn.ID), zap.Error(err))
			return
		}
		g.handleFrame(conn, frame)
	}
}

// handleFrame dispatches one inbound action. Unknown actions are non-fatal.
// Administrative actions from non-admin roles are silently ignored so their
// existence is not leaked to untrusted clients.
func (g *Gateway) handleFrame(conn *Connection, frame InboundFrame) {
	switch frame.Action {
	case actionPing:
		_ = g.registry.SendTo(conn.ID, NewEvent("pong", nil))
	case actionGetStats:
		if conn.Role != domain.RoleAdmin {
			return
		}
		_ = g.registry.SendTo(conn.ID, NewEvent("stats", g.registry.Stats()))
	case actionGetConnectedUsers:
		if conn.Role != domain.RoleAdmin {
			return
		}
		users := g.registry.ConnectedUsers(nil)
		_ = g.registry.SendTo(conn.ID, NewEvent("connected_users", map[string]interface{}{"users": users}))
	default:
		_ = g.registry.SendTo(conn.ID, NewErrorEvent(fmt.Sprintf("Unknown action: %s", frame.Action)))
	}
}

// rejectHandshake sends a single error frame and leaves the stream to the
// deferred close. The connection is never registered.
func (g *Gateway) rejectHandshake(stream clientStream, cause error) {
	g.logger.Warn("websocket handshake rejected", zap.Error(cause))
	_ = stream.SetWriteDeadline(time.Now().Add(g.writeTimeout))
	_ = stream.WriteJSON(NewErrorEvent("Authentication failed or connection error"))
}

// timedSender bounds every write so one slow client cannot stall fan-out.
func (g *Gateway) timedSender(stream clientStream) Sender {
	return senderFunc(func(v interface{}) error {
		if err := stream.SetWriteDeadline(time.Now().Add(g.writeTimeout)); err != nil {
			return err
		}
		return stream.WriteJSON(v)
	})
}

type senderFunc func(v interface{}) error

func (f senderFunc) WriteJSON(v interface{}) error { return f(v) }
