package db

import (
	"context"
	"errors"
	"time"
)

// MessageStatus tracks delivery of a contact message to its recipient.
type MessageStatus string

const (
	MessageStatusReceived  MessageStatus = "received"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusFailed    MessageStatus = "failed"
)

// ContactMessage models a contact form submission.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Body      string
	Recipient string
	Status    MessageStatus
	RemoteIP  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrMessageNotFound is returned when a message id does not exist.
var ErrMessageNotFound = errors.New("db: contact message not found")

// Store describes the persistence surface consumed by the daemon.
type Store interface {
	Close(ctx context.Context) error
	Queries() Queries
	WithTx(ctx context.Context, fn func(Queries) error) error
}

// Queries exposes repository accessors bound to a specific connection scope
// (either the root connection or a transaction).
type Queries interface {
	Messages() MessageRepository
}

// MessageRepository manages contact messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *ContactMessage) (int64, error)
	Get(ctx context.Context, id int64) (*ContactMessage, error)
	List(ctx context.Context, limit int) ([]ContactMessage, error)
	UpdateStatus(ctx context.Context, id int64, status MessageStatus) error
	Delete(ctx context.Context, id int64) error
}
