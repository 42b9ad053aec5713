package domain

// Session representa una conexión de transporte activa. Identity queda vacía
// hasta que el cliente la asocia; una reconexión crea siempre una Session
// nueva, nunca revive una anterior.
type Session struct {
	ConnectionID string `json:"connection_id"`
	Identity     string `json:"identity,omitempty"`
}
