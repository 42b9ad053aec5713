package relay

import (
	"context"

	"go.uber.org/zap"

	"chat-relay/internal/domain"
)

// Appender persiste mensajes en el gateway externo.
type Appender interface {
	Append(ctx context.Context, msg domain.Message) error
}

// Limiter regula la cadencia de envíos por identidad.
type Limiter interface {
	Allow(key string) bool
}

// Relay es el punto de entrada de un mensaje enviado. Lo difunde a las
// sesiones vivas y delega la persistencia en una segunda fase desacoplada que
// nunca bloquea ni deshace la entrega en vivo.
type Relay struct {
	logger   *zap.Logger
	registry *Registry
	store    Appender
	limiter  Limiter
}

func NewRelay(logger *zap.Logger, registry *Registry, store Appender, limiter Limiter) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		logger:   logger,
		registry: registry,
		store:    store,
		limiter:  limiter,
	}
}

// Submit valida el mensaje, lo difunde y lanza la persistencia en segundo
// plano. Un contenido vacío tras recortar espacios se descarta en silencio.
func (r *Relay) Submit(msg domain.Message) {
	if !msg.HasContent() {
		r.logger.Debug("empty message dropped", zap.String("sender", msg.Sender))
		return
	}
	if r.limiter != nil && !r.limiter.Allow(msg.Sender) {
		r.logger.Warn("message throttled", zap.String("sender", msg.Sender))
		return
	}

	// Fase 1: entrega en vivo. Nunca espera a la persistencia.
	r.registry.Broadcast(msg)

	if r.store == nil {
		return
	}

	// Fase 2: persistencia desacoplada. Un fallo se registra y no se
	// reintenta; la difusión ya realizada no se retracta.
	go func(msg domain.Message) {
		if err := r.store.Append(context.Background(), msg); err != nil {
			r.logger.Error("store message failed",
				zap.String("sender", msg.Sender),
				zap.Error(err),
			)
			return
		}
		r.logger.Debug("message stored", zap.String("sender", msg.Sender))
	}(msg)
}
