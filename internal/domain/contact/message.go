// Package contact holds messages sent through the storefront contact form.
package contact

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
)

// AggregateTypeMessage is the aggregate type of contact messages
const AggregateTypeMessage = "ContactMessage"

// EventTypeMessageReceived is raised when a visitor sends a message
const EventTypeMessageReceived = "MessageReceived"

// Message is a freeform message from a visitor
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessage validates and builds a message
func NewMessage(id, name, email, body string, now time.Time) (*Message, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	body = strings.TrimSpace(body)

	var missing []string
	if name == "" {
		missing = append(missing, "nom")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if body == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return nil, shared.ErrInvalidInput.WithMessage(
			fmt.Sprintf("Champs obligatoires manquants : %s", strings.Join(missing, ", ")),
		)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Adresse email invalide")
	}

	return &Message{
		ID:        id,
		Name:      name,
		Email:     email,
		Message:   body,
		CreatedAt: now.UTC(),
	}, nil
}

// MessageReceivedEvent is raised when a message is stored
type MessageReceivedEvent struct {
	shared.BaseDomainEvent
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Excerpt   string `json:"excerpt"`
}

// NewMessageReceivedEvent creates a new MessageReceivedEvent
func NewMessageReceivedEvent(m *Message) *MessageReceivedEvent {
	excerpt := m.Message
	if r := []rune(excerpt); len(r) > 200 {
		excerpt = string(r[:200]) + "…"
	}
	return &MessageReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageReceived, AggregateTypeMessage, m.ID),
		MessageID:       m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Excerpt:         excerpt,
	}
}

// Repository persists contact messages
type Repository interface {
	// FindAll returns every message, newest first
	FindAll(ctx context.Context) ([]Message, error)
	FindByID(ctx context.Context, id string) (*Message, error)
	Create(ctx context.Context, m *Message) error
	Save(ctx context.Context, m *Message) error
	Delete(ctx context.Context, id string) error
}
