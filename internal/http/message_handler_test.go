package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-relay/internal/domain"
)

type mockMessageRepo struct {
	createErr error
	listErr   error
	stored    []domain.StoredMessage
}

func (m *mockMessageRepo) Create(_ context.Context, message domain.StoredMessage) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.stored = append(m.stored, message)
	return nil
}

func (m *mockMessageRepo) ListAll(_ context.Context) ([]domain.StoredMessage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.stored, nil
}

func newMessageTestRouter(repo *mockMessageRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewMessageHandler(zap.NewNop(), repo)
	r.POST("/api/messages", h.CreateMessage)
	r.GET("/api/messages", h.ListMessages)
	return r
}

func TestCreateMessageStoresEnvelopePayload(t *testing.T) {
	repo := &mockMessageRepo{}
	router := newMessageTestRouter(repo)

	body := []byte(`{"data":{"sender":"bob","content":"hello","timestamp":"2024-01-01T00:00:00Z"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.stored) != 1 {
		t.Fatalf("expected one stored message")
	}
	stored := repo.stored[0]
	if stored.Sender != "bob" || stored.Content != "hello" || stored.Timestamp != "2024-01-01T00:00:00Z" {
		t.Fatalf("unexpected stored message %+v", stored)
	}
	if stored.ID == "" {
		t.Fatalf("store must assign an id")
	}
}

func TestCreateMessageRejectsBlankContent(t *testing.T) {
	repo := &mockMessageRepo{}
	router := newMessageTestRouter(repo)

	body := []byte(`{"data":{"sender":"bob","content":"   ","timestamp":"t"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(repo.stored) != 0 {
		t.Fatalf("blank content must not be stored")
	}
}

func TestCreateMessageReportsStoreFailure(t *testing.T) {
	repo := &mockMessageRepo{createErr: errors.New("db down")}
	router := newMessageTestRouter(repo)

	body := []byte(`{"data":{"sender":"bob","content":"hello","timestamp":"t"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error.Message == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestListMessagesReturnsDataEnvelope(t *testing.T) {
	repo := &mockMessageRepo{stored: []domain.StoredMessage{
		{ID: "m1", Sender: "alice", Content: "a1", Timestamp: "t1"},
		{ID: "m2", Sender: "bob", Content: "b1", Timestamp: "t2"},
	}}
	router := newMessageTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data []domain.StoredMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Data))
	}
}

func TestListMessagesEmptyStoreReturnsEmptyArray(t *testing.T) {
	router := newMessageTestRouter(&mockMessageRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !bytes.Contains([]byte(body), []byte(`"data":[]`)) {
		t.Fatalf("expected empty data array, got %s", body)
	}
}
