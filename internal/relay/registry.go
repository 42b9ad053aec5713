package relay

import (
	"sync"

	"go.uber.org/zap"

	"chat-relay/internal/domain"
)

// SessionWriter escribe un mensaje en el transporte de una sesión.
type SessionWriter interface {
	WriteMessage(msg domain.Message) error
}

type session struct {
	info   domain.Session
	writer SessionWriter
}

// Registry mantiene las sesiones conectadas y ofrece la primitiva de fan-out.
// Es seguro para uso concurrente; Broadcast itera sobre un snapshot para
// tolerar altas y bajas durante la entrega.
type Registry struct {
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Register da de alta una sesión nueva sin identidad asociada.
func (r *Registry) Register(connectionID string, writer SessionWriter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connectionID] = &session{
		info:   domain.Session{ConnectionID: connectionID},
		writer: writer,
	}
	r.logger.Info("session registered",
		zap.String("connection_id", connectionID),
		zap.Int("sessions", len(r.sessions)),
	)
}

// Deregister da de baja una sesión. Es idempotente: una baja desconocida es
// un no-op.
func (r *Registry) Deregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[connectionID]; !ok {
		return
	}
	delete(r.sessions, connectionID)
	r.logger.Info("session deregistered",
		zap.String("connection_id", connectionID),
		zap.Int("sessions", len(r.sessions)),
	)
}

// Associate vincula una identidad a la sesión. Solo tiene fines de
// observabilidad: el fan-out nunca filtra por identidad.
func (r *Registry) Associate(connectionID, identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[connectionID]
	if !ok || s.info.Identity != "" {
		return
	}
	s.info.Identity = domain.NormalizeIdentity(identity)
}

// Count devuelve el número de sesiones vivas.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Broadcast entrega el mensaje a todas las sesiones registradas, incluida la
// del emisor. La entrega es best-effort: un error de escritura se registra y
// no interrumpe la entrega al resto de sesiones.
func (r *Registry) Broadcast(msg domain.Message) {
	r.mu.RLock()
	targets := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	for _, s := range targets {
		if err := s.writer.WriteMessage(msg); err != nil {
			r.logger.Warn("broadcast write failed",
				zap.String("connection_id", s.info.ConnectionID),
				zap.Error(err),
			)
		}
	}
}
