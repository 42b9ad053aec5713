package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chat-relay/internal/domain"
)

// WSTransport conecta el engine con el relay por websocket.
type WSTransport struct {
	logger *zap.Logger
	conn   *websocket.Conn

	// gorilla no admite escrituras concurrentes sobre una misma conexión.
	writeMu sync.Mutex
}

// DialWS abre la conexión websocket contra el relay.
func DialWS(ctx context.Context, url string, logger *zap.Logger) (*WSTransport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	return &WSTransport{logger: logger, conn: conn}, nil
}

// Send implementa Sender sobre la conexión websocket.
func (t *WSTransport) Send(msg domain.Message) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteJSON(msg)
}

// Listen lee entregas del relay y las pasa al handler hasta que la conexión
// se cierra.
func (t *WSTransport) Listen(handler func(domain.Message)) error {
	for {
		var msg domain.Message
		if err := t.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read relay delivery: %w", err)
		}
		handler(msg)
	}
}

func (t *WSTransport) Close() error {
	return t.conn.Close()
}
