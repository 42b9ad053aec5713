package gateway

import (
	"context"
	"sync"

	"chat-relay/internal/domain"
)

// MockClient permite tests sin un gateway real.
type MockClient struct {
	mu        sync.Mutex
	AppendErr error
	QueryErr  error
	History   []domain.Message
	Appended  []domain.Message
}

func (m *MockClient) Append(ctx context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Appended = append(m.Appended, msg)
	return nil
}

func (m *MockClient) Query(ctx context.Context) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	out := make([]domain.Message, len(m.History))
	copy(out, m.History)
	return out, nil
}

// AppendedMessages devuelve una copia de los mensajes persistidos.
func (m *MockClient) AppendedMessages() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Message, len(m.Appended))
	copy(out, m.Appended)
	return out
}
