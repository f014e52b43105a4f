package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Valid reports whether the sender is one of the known values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}

// ChatMessage is one turn of the companion conversation. Messages are
// append-only and strictly ordered by creation time; the ordered sequence
// is replayed to the text-generation gateway on every new turn.
type ChatMessage struct {
	ID        uuid.UUID
	Sender    Sender
	Content   string
	CreatedAt time.Time
}
