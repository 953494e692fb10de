// Package contact handles the storefront contact form and the admin inbox.
package contact

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grasdvirus/prime-panier/internal/domain/contact"
	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/logger"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SubmitMessageRequest is the contact form payload
type SubmitMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Service stores contact messages and notifies the administrator
type Service struct {
	repo           contact.Repository
	eventPublisher shared.EventPublisher
	metrics        *telemetry.ShopMetrics
	now            func() time.Time
}

// NewService creates a new contact Service
func NewService(repo contact.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetEventPublisher sets the event publisher used for admin notifications
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetShopMetrics sets the business metrics recorder
func (s *Service) SetShopMetrics(m *telemetry.ShopMetrics) {
	s.metrics = m
}

// Submit validates and stores a message
func (s *Service) Submit(ctx context.Context, req SubmitMessageRequest) (*contact.Message, error) {
	msg, err := contact.NewMessage(uuid.NewString(), req.Name, req.Email, req.Message, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.metrics.RecordContactMessage(ctx)
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, contact.NewMessageReceivedEvent(msg)); err != nil {
			logger.L(ctx).Warn("Failed to publish message event", zap.Error(err))
		}
	}

	logger.L(ctx).Info("Contact message received", zap.String("message_id", msg.ID))
	return msg, nil
}

// List returns every message, newest first
func (s *Service) List(ctx context.Context) ([]contact.Message, error) {
	return s.repo.FindAll(ctx)
}

// MarkRead flags a message as read
func (s *Service) MarkRead(ctx context.Context, id string) (*contact.Message, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shared.ErrInvalidInput.WithMessage("L'identifiant du message est obligatoire")
	}
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Read {
		return msg, nil
	}
	msg.Read = true
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Delete removes a message
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return shared.ErrInvalidInput.WithMessage("L'identifiant du message est obligatoire")
	}
	return s.repo.Delete(ctx, id)
}
