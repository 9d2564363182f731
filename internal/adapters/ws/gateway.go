// Package ws is the push channel toward the robotic avatar front-end: a
// persistent bidirectional websocket carrying named events, used as an
// alternative to polling the HTTP surface.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/tvonment/tarot-backend/internal/app/session"
	"github.com/tvonment/tarot-backend/internal/domain"
)

const preparingMessage = "Your fortune is being prepared!"

// Envelope is the wire frame for both directions: a named event plus an
// opaque payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type fortuneRequestData struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type fortuneResponseData struct {
	Message string `json:"message"`
}

type Gateway struct {
	svc      *session.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewGateway(svc *session.Service, logger *slog.Logger) *Gateway {
	return &Gateway{
		svc:    svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the connection and serves events until the peer closes.
func (g *Gateway) Handle(c echo.Context) error {
	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		g.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	g.register(conn)
	defer g.unregister(conn)

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Info("websocket closed", "error", err)
			}
			return nil
		}

		switch env.Event {
		case "fortuneRequest":
			g.handleFortuneRequest(c, conn, env.Data)
		default:
			g.logger.Info("ignoring unknown event", "event", env.Event)
		}
	}
}

func (g *Gateway) handleFortuneRequest(c echo.Context, conn *websocket.Conn, raw json.RawMessage) {
	var req fortuneRequestData
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			g.logger.Error("invalid fortuneRequest payload", "error", err)
		}
	}
	g.logger.Info("fortune request received", "session_id", req.SessionID, "message", req.Message)

	reply := g.fortuneReply(c, req)
	g.send(conn, "fortuneResponse", fortuneResponseData{Message: reply})
}

// fortuneReply returns the generated fortune when the session already has
// one, otherwise the preparing acknowledgment.
func (g *Gateway) fortuneReply(c echo.Context, req fortuneRequestData) string {
	if req.SessionID == "" {
		return preparingMessage
	}

	sess, err := g.svc.GetSession(c.Request().Context(), domain.SessionID(req.SessionID))
	if err != nil || sess == nil || len(sess.Fortune) == 0 {
		return preparingMessage
	}

	if sess.FortuneSummary != "" {
		return sess.FortuneSummary
	}
	parts := make([]string, 0, len(sess.Fortune))
	for _, f := range sess.Fortune {
		parts = append(parts, f.Content)
	}
	return strings.Join(parts, " ")
}

// Broadcast pushes an event to every connected avatar client.
func (g *Gateway) Broadcast(event string, data any) {
	g.mu.Lock()
	defer g.mu.Unlock()

	payload, err := json.Marshal(data)
	if err != nil {
		g.logger.Error("broadcast marshal failed", "event", event, "error", err)
		return
	}

	for conn := range g.clients {
		if err := conn.WriteJSON(Envelope{Event: event, Data: payload}); err != nil {
			g.logger.Error("broadcast write failed", "event", event, "error", err)
		}
	}
}

func (g *Gateway) send(conn *websocket.Conn, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		g.logger.Error("send marshal failed", "event", event, "error", err)
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := conn.WriteJSON(Envelope{Event: event, Data: payload}); err != nil {
		g.logger.Error("send failed", "event", event, "error", err)
	}
}

func (g *Gateway) register(conn *websocket.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[conn] = struct{}{}
}

func (g *Gateway) unregister(conn *websocket.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, conn)
	conn.Close()
}
