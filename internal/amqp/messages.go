package amqp

import (
	"encoding/json"
	"time"

	"smartmoney/internal/core"
)

// ChangeMessage carries one ledger change on the change feed. Data is the
// JSON of the record after the change, or {"id": ...} for deletes.
type ChangeMessage struct {
	ID          string          `json:"id"`
	Type        core.ChangeType `json:"type"`
	Entity      string          `json:"entity"`
	Data        json.RawMessage `json:"data,omitempty"`
	Timestamp   int64           `json:"timestamp"` // Unix ms of the change
	PublishedAt time.Time       `json:"publishedAt"`
}

// NewChangeMessage wraps a pending change for publishing
func NewChangeMessage(c core.PendingChange) *ChangeMessage {
	return &ChangeMessage{
		ID:          c.ID,
		Type:        c.Type,
		Entity:      c.Entity,
		Data:        c.Data,
		Timestamp:   c.Timestamp,
		PublishedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Expense decodes Data for expense add/update messages.
func (m *ChangeMessage) Expense() (core.Expense, error) {
	var e core.Expense
	err := json.Unmarshal(m.Data, &e)
	return e, err
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
