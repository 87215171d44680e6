// Package contact accepts contact-form submissions from the portfolio page,
// stores them and notifies the site owner.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ccheshirecat/folio/internal/server/db"
	"github.com/ccheshirecat/folio/internal/server/eventbus"
)

// TopicMessages carries MessageEvent payloads.
const TopicMessages = "contact.messages"

const (
	EventReceived  = "contact.message.received"
	EventDelivered = "contact.message.delivered"
	EventFailed    = "contact.message.failed"
	EventDeleted   = "contact.message.deleted"
)

const notifyTimeout = 10 * time.Second

// Submission is the form payload.
type Submission struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Message  string `json:"message" validate:"required,max=5000"`
	RemoteIP string `json:"-"`
}

// Message is the API representation of a stored submission.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Recipient string    `json:"recipient,omitempty"`
	Status    string    `json:"status"`
	RemoteIP  string    `json:"remote_ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageEvent is published on TopicMessages.
type MessageEvent struct {
	Type      string    `json:"type"`
	Message   Message   `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrInvalidSubmission is wrapped by ValidationError.
var ErrInvalidSubmission = errors.New("contact: invalid submission")

// ValidationError lists the offending fields of a submission.
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("contact: invalid fields: %s", strings.Join(e.Fields, ", "))
}

func (e ValidationError) Unwrap() error { return ErrInvalidSubmission }

// Notifier delivers a stored message to the site owner.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Params wires a Service.
type Params struct {
	Store     db.Store
	Bus       eventbus.Bus
	Notifier  Notifier
	Logger    *slog.Logger
	Recipient string
}

// Service implements the contact form workflow.
type Service struct {
	store     db.Store
	bus       eventbus.Bus
	notifier  Notifier
	logger    *slog.Logger
	recipient string
	validate  *validator.Validate
}

// New constructs a Service. Store and Logger are required.
func New(p Params) (*Service, error) {
	if p.Store == nil {
		return nil, errors.New("contact: store required")
	}
	if p.Logger == nil {
		return nil, errors.New("contact: logger required")
	}
	notifier := p.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: p.Logger}
	}
	return &Service{
		store:     p.Store,
		bus:       p.Bus,
		notifier:  notifier,
		logger:    p.Logger,
		recipient: p.Recipient,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Submit validates and stores a submission, then notifies the recipient in
// the background. Notification failures only affect the stored status.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Message, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Message = strings.TrimSpace(sub.Message)

	if err := s.validate.StructCtx(ctx, sub); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return nil, ValidationError{Fields: fields}
		}
		return nil, fmt.Errorf("validate submission: %w", err)
	}

	record := &db.ContactMessage{
		Name:      sub.Name,
		Email:     sub.Email,
		Body:      sub.Message,
		Recipient: s.recipient,
		Status:    db.MessageStatusReceived,
		RemoteIP:  sub.RemoteIP,
	}
	repo := s.store.Queries().Messages()
	id, err := repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}
	stored, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}

	msg := toMessage(*stored)
	s.publish(ctx, EventReceived, msg)
	s.logger.Info("contact message received", "id", msg.ID, "email", msg.Email)

	go s.deliver(msg)
	return &msg, nil
}

// List returns the newest messages first. limit <= 0 means no limit.
func (s *Service) List(ctx context.Context, limit int) ([]Message, error) {
	records, err := s.store.Queries().Messages().List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(records))
	for _, r := range records {
		out = append(out, toMessage(r))
	}
	return out, nil
}

// Get returns one message or db.ErrMessageNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*Message, error) {
	record, err := s.store.Queries().Messages().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	msg := toMessage(*record)
	return &msg, nil
}

// Delete removes a message.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var deleted Message
	err := s.store.WithTx(ctx, func(q db.Queries) error {
		record, err := q.Messages().Get(ctx, id)
		if err != nil {
			return err
		}
		deleted = toMessage(*record)
		return q.Messages().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, EventDeleted, deleted)
	return nil
}

func (s *Service) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	status, event := db.MessageStatusDelivered, EventDelivered
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Error("contact notify", "id", msg.ID, "error", err)
		status, event = db.MessageStatusFailed, EventFailed
	}
	if err := s.store.Queries().Messages().UpdateStatus(ctx, msg.ID, status); err != nil {
		if !errors.Is(err, db.ErrMessageNotFound) {
			s.logger.Error("contact update status", "id", msg.ID, "error", err)
		}
		return
	}
	msg.Status = string(status)
	s.publish(ctx, event, msg)
}

func (s *Service) publish(ctx context.Context, eventType string, msg Message) {
	if s.bus == nil {
		return
	}
	event := MessageEvent{Type: eventType, Message: msg, Timestamp: time.Now().UTC()}
	if err := s.bus.Publish(ctx, TopicMessages, event); err != nil {
		s.logger.Warn("publish contact event", "type", eventType, "error", err)
	}
}

func toMessage(r db.ContactMessage) Message {
	return Message{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Body,
		Recipient: r.Recipient,
		Status:    string(r.Status),
		RemoteIP:  r.RemoteIP,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// LogNotifier records the message in the daemon log. Outbound delivery is
// left to whatever ships the log stream.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(_ context.Context, msg Message) error {
	n.Logger.Info("contact message for recipient",
		"id", msg.ID,
		"recipient", msg.Recipient,
		"from_name", msg.Name,
		"from_email", msg.Email,
		"message", msg.Message,
	)
	return nil
}
