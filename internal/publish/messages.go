package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/doughall/hwinv/internal/inventory"
)

// MessageTypeInventory is the envelope type of a published report.
const MessageTypeInventory = "inventory"

// MessageEnvelope wraps every NATS message with type information.
type MessageEnvelope struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp string          `json:"timestamp"`
}

func newEnvelope(r *inventory.Report, now time.Time) ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	data, err := json.Marshal(MessageEnvelope{
		Type:      MessageTypeInventory,
		Payload:   payload,
		Timestamp: now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return data, nil
}
