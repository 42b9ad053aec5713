package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chat-relay/internal/domain"
)

// ErrRejected indica que el servicio de identidad rechazó las credenciales.
var ErrRejected = errors.New("identity request rejected")

// AuthResult es la respuesta de un login o registro exitoso.
type AuthResult struct {
	JWT  string      `json:"jwt"`
	User domain.User `json:"user"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client consume el servicio de identidad externo.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Login autentica con identificador (usuario o email) y contraseña.
func (c *Client) Login(ctx context.Context, identifier, password string) (AuthResult, error) {
	return c.post(ctx, "/api/auth/local", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
}

// Register da de alta un usuario nuevo.
func (c *Client) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	return c.post(ctx, "/api/auth/local/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (c *Client) post(ctx context.Context, path string, payload map[string]string) (AuthResult, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return AuthResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return AuthResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return AuthResult{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return AuthResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return AuthResult{}, fmt.Errorf("%w: %s", ErrRejected, apiErr.Error.Message)
		}
		return AuthResult{}, fmt.Errorf("%w: status=%d", ErrRejected, resp.StatusCode)
	}

	var result AuthResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return AuthResult{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if result.JWT == "" {
		return AuthResult{}, fmt.Errorf("%w: empty token", ErrRejected)
	}
	return result, nil
}
