// Package events publishes expense change notifications to a message
// broker so other consumers can react to edits.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type is the routing key of an event.
type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
)

// ExpenseEvent identifies a changed expense. Consumers fetch the current
// state themselves.
type ExpenseEvent struct {
	Type      Type      `json:"type"`
	UserID    string    `json:"user_id"`
	ExpenseID string    `json:"expense_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent stamps an event with the current time.
func NewExpenseEvent(typ Type, userID, expenseID string) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      typ,
		UserID:    userID,
		ExpenseID: expenseID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON decodes an event.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher delivers expense events.
type Publisher interface {
	Publish(ctx context.Context, event *ExpenseEvent) error
	Close() error
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, *ExpenseEvent) error { return nil }
func (Noop) Close() error { return nil }
