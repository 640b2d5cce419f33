package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"controlpanel/internal/core"
)

// EventCustomerUpdated is the routing key of customer edit events.
const EventCustomerUpdated = "customer.updated"

// CustomerUpdatedMessage announces a stored customer edit with the new
// values of the changed fields, so consumers need no access to the store.
type CustomerUpdatedMessage struct {
	MessageID    string            `json:"messageId"`
	Event        string            `json:"event"`
	CustomerID   int64             `json:"customerId"`
	CustomerName string            `json:"customerName"`
	Changed      []string          `json:"changed"`
	Values       map[string]string `json:"values"`
	Timestamp    time.Time         `json:"timestamp"`
}

func NewCustomerUpdatedMessage(change core.CustomerChange) *CustomerUpdatedMessage {
	values := make(map[string]string, len(change.Values))
	for k, v := range change.Values {
		values[k] = v
	}
	return &CustomerUpdatedMessage{
		MessageID:    uuid.NewString(),
		Event:        EventCustomerUpdated,
		CustomerID:   change.CustomerID,
		CustomerName: change.CustomerName,
		Changed:      append([]string{}, change.Changed...),
		Values:       values,
		Timestamp:    time.Now().UTC(),
	}
}

func (m *CustomerUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CustomerUpdatedMessageFromJSON decodes and checks a message body.
func CustomerUpdatedMessageFromJSON(data []byte) (*CustomerUpdatedMessage, error) {
	var msg CustomerUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Event != EventCustomerUpdated {
		return nil, fmt.Errorf("unexpected event %q", msg.Event)
	}
	if msg.CustomerID <= 0 {
		return nil, errors.New("missing customer id")
	}
	return &msg, nil
}
