package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"chat-relay/internal/domain"
)

type stubFetcher struct {
	history []domain.Message
	err     error
	calls   int
}

func (s *stubFetcher) Query(_ context.Context) ([]domain.Message, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

type stubSender struct {
	sent []domain.Message
	err  error
}

func (s *stubSender) Send(msg domain.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestEngineOptimisticSubmitThenEchoKeepsSingleEntry(t *testing.T) {
	sender := &stubSender{}
	engine := NewEngine(zap.NewNop(), &stubFetcher{}, sender)
	engine.now = fixedClock
	if err := engine.OnConnect(context.Background(), "bob"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	msg, ok := engine.OnLocalSubmit("hi")
	if !ok {
		t.Fatalf("expected submit to be accepted")
	}
	if len(engine.Timeline()) != 1 {
		t.Fatalf("expected optimistic entry before any network round trip")
	}
	if len(sender.sent) != 1 || sender.sent[0] != msg {
		t.Fatalf("expected message sent to relay")
	}

	if appended := engine.OnRelayDelivery(msg); appended {
		t.Fatalf("own echo must be suppressed")
	}
	timeline := engine.Timeline()
	if len(timeline) != 1 || timeline[0].Content != "hi" {
		t.Fatalf("expected exactly one entry after echo, got %+v", timeline)
	}
}

func TestEngineForeignDeliveryIsAppendedInArrivalOrder(t *testing.T) {
	engine := NewEngine(zap.NewNop(), &stubFetcher{}, &stubSender{})
	engine.now = fixedClock
	_ = engine.OnConnect(context.Background(), "bob")

	// Llega fuera de orden de timestamp; el orden de llegada manda.
	later := domain.Message{Sender: "carol", Content: "second", Timestamp: "2024-01-01T00:00:09Z"}
	earlier := domain.Message{Sender: "carol", Content: "first", Timestamp: "2024-01-01T00:00:01Z"}
	if !engine.OnRelayDelivery(later) || !engine.OnRelayDelivery(earlier) {
		t.Fatalf("foreign messages must be appended")
	}

	timeline := engine.Timeline()
	if len(timeline) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(timeline))
	}
	if timeline[0].Content != "second" || timeline[1].Content != "first" {
		t.Fatalf("timeline must keep arrival order, got %+v", timeline)
	}
}

func TestEngineEchoSuppressionConsumesPendingEntry(t *testing.T) {
	engine := NewEngine(zap.NewNop(), &stubFetcher{}, &stubSender{})
	engine.now = fixedClock
	_ = engine.OnConnect(context.Background(), "bob")

	msg, _ := engine.OnLocalSubmit("hi")
	engine.OnRelayDelivery(msg)

	// Un mensaje ajeno idéntico posterior ya no casa con nada pendiente.
	if !engine.OnRelayDelivery(msg) {
		t.Fatalf("second identical delivery must render as a new entry")
	}
	if len(engine.Timeline()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(engine.Timeline()))
	}
}

func TestEngineFetchHistoryFiltersByIdentityCaseInsensitive(t *testing.T) {
	fetcher := &stubFetcher{history: []domain.Message{
		{Sender: "alice", Content: "a1", Timestamp: "t1"},
		{Sender: "Bob", Content: "b1", Timestamp: "t2"},
		{Sender: "ALICE ", Content: "a2", Timestamp: "t3"},
	}}
	engine := NewEngine(zap.NewNop(), fetcher, &stubSender{})
	engine.now = fixedClock

	if err := engine.OnConnect(context.Background(), " Alice "); err != nil {
		t.Fatalf("connect: %v", err)
	}

	pane := engine.History()
	if len(pane) != 2 {
		t.Fatalf("expected 2 history entries for alice, got %d", len(pane))
	}
	if pane[0].Content != "a1" || pane[1].Content != "a2" {
		t.Fatalf("unexpected history pane %+v", pane)
	}
}

func TestEngineFetchHistoryFailureKeepsPreviousPane(t *testing.T) {
	fetcher := &stubFetcher{history: []domain.Message{
		{Sender: "bob", Content: "old", Timestamp: "t1"},
	}}
	engine := NewEngine(zap.NewNop(), fetcher, &stubSender{})
	engine.now = fixedClock
	_ = engine.OnConnect(context.Background(), "bob")

	fetcher.err = errors.New("gateway down")
	if err := engine.FetchHistory(context.Background()); err == nil {
		t.Fatalf("expected fetch error to be reported")
	}

	pane := engine.History()
	if len(pane) != 1 || pane[0].Content != "old" {
		t.Fatalf("previous pane must survive a failed fetch, got %+v", pane)
	}
}

func TestEngineStartNewSessionClearsTimelineAndRefetches(t *testing.T) {
	fetcher := &stubFetcher{history: []domain.Message{
		{Sender: "bob", Content: "stored", Timestamp: "t1"},
	}}
	engine := NewEngine(zap.NewNop(), fetcher, &stubSender{})
	engine.now = fixedClock
	_ = engine.OnConnect(context.Background(), "bob")
	engine.OnLocalSubmit("live one")
	engine.OnRelayDelivery(domain.Message{Sender: "carol", Content: "live two", Timestamp: "t"})

	calls := fetcher.calls
	if err := engine.StartNewSession(context.Background()); err != nil {
		t.Fatalf("start new session: %v", err)
	}

	if len(engine.Timeline()) != 0 {
		t.Fatalf("expected empty live timeline")
	}
	if fetcher.calls != calls+1 {
		t.Fatalf("expected history refetch")
	}
	if len(engine.History()) != 1 {
		t.Fatalf("expected repopulated history pane")
	}
}

func TestEngineEmptySubmitIsNoop(t *testing.T) {
	sender := &stubSender{}
	engine := NewEngine(zap.NewNop(), &stubFetcher{}, sender)
	engine.now = fixedClock
	_ = engine.OnConnect(context.Background(), "bob")

	if _, ok := engine.OnLocalSubmit("   "); ok {
		t.Fatalf("whitespace-only submit must be rejected")
	}
	if len(engine.Timeline()) != 0 || len(sender.sent) != 0 {
		t.Fatalf("empty submit must not touch timeline or transport")
	}
}

func TestEngineSendFailureKeepsOptimisticEntry(t *testing.T) {
	sender := &stubSender{err: errors.New("transport closed")}
	engine := NewEngine(zap.NewNop(), &stubFetcher{}, sender)
	engine.now = fixedClock
	_ = engine.OnConnect(context.Background(), "bob")

	if _, ok := engine.OnLocalSubmit("hi"); !ok {
		t.Fatalf("submit must be accepted locally")
	}
	if len(engine.Timeline()) != 1 {
		t.Fatalf("optimistic entry must remain visible after a send failure")
	}
}
