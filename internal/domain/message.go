package domain

import (
	"strings"
	"time"
)

// Message es la unidad de comunicación del chat. El timestamp lo asigna el
// cliente emisor en formato ISO-8601 y se compara como valor opaco; un Message
// es inmutable una vez creado.
type Message struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NormalizeIdentity normaliza una identidad para comparaciones.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// HasContent indica si el mensaje tiene contenido tras recortar espacios.
func (m Message) HasContent() bool {
	return strings.TrimSpace(m.Content) != ""
}

// Matches compara dos mensajes por (sender, content, timestamp). El sender se
// compara sin distinguir mayúsculas; content y timestamp son exactos.
func (m Message) Matches(other Message) bool {
	return NormalizeIdentity(m.Sender) == NormalizeIdentity(other.Sender) &&
		m.Content == other.Content &&
		m.Timestamp == other.Timestamp
}

// FromIdentity indica si el mensaje pertenece a la identidad dada.
func (m Message) FromIdentity(identity string) bool {
	return NormalizeIdentity(m.Sender) == NormalizeIdentity(identity)
}

// StoredMessage es la representación durable de un Message en el store. El id
// y created_at los asigna el store y nunca viajan por el relay.
type StoredMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// AsMessage devuelve la proyección de relay del mensaje almacenado.
func (s StoredMessage) AsMessage() Message {
	return Message{Sender: s.Sender, Content: s.Content, Timestamp: s.Timestamp}
}
