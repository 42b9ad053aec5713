package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"chat-relay/internal/domain"
)

// HistoryFetcher consulta el historial completo del gateway.
type HistoryFetcher interface {
	Query(ctx context.Context) ([]domain.Message, error)
}

// Sender envía un mensaje hacia el relay.
type Sender interface {
	Send(msg domain.Message) error
}

// Los ecos pendientes se comparan solo contra los envíos más recientes.
const maxPending = 32

// Engine reconcilia en una sola línea de tiempo los mensajes optimistas
// locales, las entregas del relay y el historial del gateway. La línea de
// tiempo viva mantiene orden de llegada, nunca se reordena por timestamp.
//
// Engine no es seguro para uso concurrente: pertenece al event loop del
// cliente.
type Engine struct {
	logger  *zap.Logger
	history HistoryFetcher
	sender  Sender
	now     func() time.Time

	identity string
	timeline []domain.Message
	pane     []domain.Message
	pending  []domain.Message
}

func NewEngine(logger *zap.Logger, history HistoryFetcher, sender Sender) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:  logger,
		history: history,
		sender:  sender,
		now:     time.Now,
	}
}

// OnConnect fija la identidad activa de este cliente y recupera su historial.
func (e *Engine) OnConnect(ctx context.Context, identity string) error {
	e.identity = strings.TrimSpace(identity)
	return e.FetchHistory(ctx)
}

// FetchHistory consulta el gateway y repuebla el panel de historial con los
// mensajes de la identidad activa. Si la consulta falla conserva el panel
// anterior; la línea de tiempo viva no se toca en ningún caso.
func (e *Engine) FetchHistory(ctx context.Context) error {
	all, err := e.history.Query(ctx)
	if err != nil {
		e.logger.Warn("history fetch failed", zap.Error(err))
		return fmt.Errorf("fetch history: %w", err)
	}

	pane := make([]domain.Message, 0, len(all))
	for _, msg := range all {
		if msg.FromIdentity(e.identity) {
			pane = append(pane, msg)
		}
	}
	e.pane = pane
	e.logger.Debug("history pane updated", zap.Int("entries", len(pane)))
	return nil
}

// OnLocalSubmit construye el mensaje, lo muestra de inmediato y lo envía al
// relay. La inserción optimista ocurre antes de cualquier viaje de red. Un
// contenido vacío es un no-op y devuelve false.
func (e *Engine) OnLocalSubmit(content string) (domain.Message, bool) {
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, false
	}

	msg := domain.Message{
		Sender:    e.identity,
		Content:   content,
		Timestamp: e.now().UTC().Format(time.RFC3339),
	}

	e.timeline = append(e.timeline, msg)
	e.pending = append(e.pending, msg)
	if len(e.pending) > maxPending {
		e.pending = e.pending[len(e.pending)-maxPending:]
	}

	if e.sender != nil {
		if err := e.sender.Send(msg); err != nil {
			// El mensaje sigue visible localmente; el relay nunca lo
			// retracta y el historial tampoco lo tendrá.
			e.logger.Warn("send to relay failed", zap.Error(err))
		}
	}
	return msg, true
}

// OnRelayDelivery incorpora una entrega del relay. El eco de un envío propio
// aún pendiente se suprime para no duplicar la entrada optimista; cualquier
// otro mensaje se añade en orden de llegada. Devuelve true si el mensaje se
// añadió como entrada nueva.
func (e *Engine) OnRelayDelivery(msg domain.Message) bool {
	for i, p := range e.pending {
		if p.Matches(msg) {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			return false
		}
	}
	e.timeline = append(e.timeline, msg)
	return true
}

// StartNewSession limpia la línea de tiempo viva y repuebla el panel de
// historial. No toca la conexión de transporte.
func (e *Engine) StartNewSession(ctx context.Context) error {
	e.timeline = nil
	e.pending = nil
	return e.FetchHistory(ctx)
}

// Identity devuelve la identidad activa.
func (e *Engine) Identity() string {
	return e.identity
}

// Timeline devuelve una copia de la línea de tiempo viva.
func (e *Engine) Timeline() []domain.Message {
	out := make([]domain.Message, len(e.timeline))
	copy(out, e.timeline)
	return out
}

// History devuelve una copia del panel de historial.
func (e *Engine) History() []domain.Message {
	out := make([]domain.Message, len(e.pane))
	copy(out, e.pane)
	return out
}
