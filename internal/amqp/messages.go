package amqp

import (
	"encoding/json"
	"time"
)

const (
	OpCreated = "created"
	OpDeleted = "deleted"
)

// LedgerEventMessage announces a committed ledger mutation to downstream
// consumers. It carries only what a consumer needs to react; the full row
// can be re-read from storage.
type LedgerEventMessage struct {
	Op          string    `json:"op"`
	ID          int64     `json:"id"`
	Kind        string    `json:"kind,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCreatedMessage builds the event published after a successful create.
func NewCreatedMessage(id int64, kind string, amountCents int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		Op:          OpCreated,
		ID:          id,
		Kind:        kind,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// NewDeletedMessage builds the event published after a successful delete.
func NewDeletedMessage(id int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		Op:        OpDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
