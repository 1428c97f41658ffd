package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces one applied state command. Consumers re-read the
// state if they need the full entity.
type ChangeMessage struct {
	Command   string    `json:"command"`
	EntityID  string    `json:"entity_id"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change message stamped with the current time
func NewChangeMessage(command, entityID string, revision int64) *ChangeMessage {
	return &ChangeMessage{
		Command:   command,
		EntityID:  entityID,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
