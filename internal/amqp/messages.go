package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moneyman/internal/core"
)

// Operation is the kind of change an event reports.
type Operation string

const (
	OpCreated Operation = "created"
	OpUpdated Operation = "updated"
	OpDeleted Operation = "deleted"
)

// ExpenseChangeMessage announces a change to one user's expense. Create and
// update events carry only the id; consumers re-read the record. Delete
// events carry the record as it was before removal, when it existed.
type ExpenseChangeMessage struct {
	MessageID string        `json:"message_id"`
	Username  string        `json:"username"`
	Op        Operation     `json:"op"`
	ID        int64         `json:"id"`
	Expense   *core.Expense `json:"expense,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewExpenseChangeMessage(username string, op Operation, id int64) *ExpenseChangeMessage {
	return &ExpenseChangeMessage{
		MessageID: uuid.NewString(),
		Username:  username,
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseChangeMessageFromJSON decodes and checks a message body.
func ExpenseChangeMessageFromJSON(data []byte) (*ExpenseChangeMessage, error) {
	var msg ExpenseChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Op {
	case OpCreated, OpUpdated, OpDeleted:
	default:
		return nil, fmt.Errorf("unknown operation %q", msg.Op)
	}
	if msg.Username == "" {
		return nil, fmt.Errorf("message %s has no username", msg.MessageID)
	}
	return &msg, nil
}
