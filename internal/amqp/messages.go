package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"easybudget/internal/core"
)

// AuditEventMessage carries one drained EventLog entry to the audit worker.
type AuditEventMessage struct {
	Description string    `json:"description"`
	LoggedAt    time.Time `json:"logged_at"`
	SessionID   string    `json:"session_id"`
}

// NewAuditEventMessage wraps a domain event produced during session sessionID.
func NewAuditEventMessage(sessionID string, e core.Event) *AuditEventMessage {
	return &AuditEventMessage{
		Description: e.Description,
		LoggedAt:    e.Time,
		SessionID:   sessionID,
	}
}

// Validate rejects messages the worker cannot store.
func (m *AuditEventMessage) Validate() error {
	var errs []error
	if m.Description == "" {
		errs = append(errs, errors.New("description is empty"))
	}
	if m.SessionID == "" {
		errs = append(errs, errors.New("session_id is empty"))
	}
	if m.LoggedAt.IsZero() {
		errs = append(errs, errors.New("logged_at is missing"))
	}
	return errors.Join(errs...)
}

// ToJSON converts the message to JSON bytes
func (m *AuditEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AuditEventMessageFromJSON decodes and validates a message body.
func AuditEventMessageFromJSON(data []byte) (*AuditEventMessage, error) {
	var msg AuditEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audit event: %w", err)
	}
	return &msg, nil
}
