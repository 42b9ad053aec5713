package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chat-relay/internal/domain"
	"chat-relay/internal/relay"
)

// WSHandler gestiona el ciclo de vida websocket de cada sesión del relay.
type WSHandler struct {
	logger   *zap.Logger
	registry *relay.Registry
	core     *relay.Relay
	upgrader websocket.Upgrader
}

func NewWSHandler(logger *zap.Logger, registry *relay.Registry, core *relay.Relay) *WSHandler {
	return &WSHandler{
		logger:   logger,
		registry: registry,
		core:     core,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// El CORS del transporte se resuelve fuera del relay.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

// wsSession adapta una conexión gorilla al SessionWriter del registry. El
// mutex serializa los broadcasts: gorilla no admite escrituras concurrentes.
type wsSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *wsSession) WriteMessage(msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(msg)
}

// Handle maneja GET /ws: registra la sesión y bombea cada mensaje entrante al
// relay hasta que el transporte se cierra. La baja de la sesión la dispara la
// salida del bucle de lectura.
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connectionID := uuid.NewString()
	h.registry.Register(connectionID, &wsSession{conn: conn})

	defer func() {
		h.registry.Deregister(connectionID)
		conn.Close()
	}()

	for {
		var msg domain.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed",
					zap.String("connection_id", connectionID),
					zap.Error(err),
				)
			}
			return
		}
		h.registry.Associate(connectionID, msg.Sender)
		h.core.Submit(msg)
	}
}
