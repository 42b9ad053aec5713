package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chat-relay/internal/domain"
)

// Client define las operaciones contra el gateway de persistencia.
type Client interface {
	Append(ctx context.Context, msg domain.Message) error
	Query(ctx context.Context) ([]domain.Message, error)
}

// HTTPClient implementa Client contra la API REST del gateway.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient construye un cliente apuntando a la API de mensajes.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://localhost:1337"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type messageEnvelope struct {
	Data domain.Message `json:"data"`
}

// Append persiste un mensaje vía POST /api/messages.
func (c *HTTPClient) Append(ctx context.Context, msg domain.Message) error {
	bodyBytes, err := json.Marshal(messageEnvelope{Data: msg})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway append: status=%d body=%s", resp.StatusCode, string(respBody))
	}
	return nil
}

type queryItem struct {
	domain.Message
	// El gateway puede anidar los campos bajo attributes (estilo Strapi v4).
	Attributes *domain.Message `json:"attributes"`
}

type listEnvelope struct {
	Data []queryItem `json:"data"`
}

// Query devuelve el historial completo vía GET /api/messages. El filtrado por
// identidad es responsabilidad del que consulta.
func (c *HTTPClient) Query(ctx context.Context) ([]domain.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/messages", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway query: status=%d", resp.StatusCode)
	}

	var env listEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	messages := make([]domain.Message, 0, len(env.Data))
	for _, item := range env.Data {
		msg := item.Message
		if item.Attributes != nil {
			msg = *item.Attributes
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
