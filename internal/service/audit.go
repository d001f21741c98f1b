package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/emptyfist/crypto-portfolio/internal/models"
	"github.com/emptyfist/crypto-portfolio/internal/repo"
	"github.com/emptyfist/crypto-portfolio/pkg/integrations/wmPubsub"
	"github.com/emptyfist/crypto-portfolio/pkg/types/pubsub"

	"github.com/pkg/errors"
)

var ErrInvalidAuditServiceConfig = errors.New("invalid audit service config")

type AuditRepository interface {
	CreateAuditLog(entry *models.AuditLog) error
}

// AuditService consumes mutation events off the in-process queue and
// persists them as audit log rows. Persisting is keyed on the event's
// operation id, so a redelivered event writes nothing.
type AuditService struct {
	ctx        context.Context
	logger     *slog.Logger
	repo       AuditRepository
	subscriber pubsub.Subscriber
	ch         chan []byte
}

type AuditOption func(*AuditService)

func WithAuditContext(ctx context.Context) AuditOption {
	return func(s *AuditService) {
		s.ctx = ctx
	}
}

func WithAuditLogger(l *slog.Logger) AuditOption {
	return func(s *AuditService) {
		s.logger = l
	}
}

func WithAuditRepo(r AuditRepository) AuditOption {
	return func(s *AuditService) {
		s.repo = r
	}
}

func WithAuditChannel(ch chan []byte) AuditOption {
	return func(s *AuditService) {
		s.ch = ch
	}
}

func (s *AuditService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidAuditServiceConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidAuditServiceConfig, "logger cannot be nil")
	case s.repo == nil:
		return errors.Wrap(ErrInvalidAuditServiceConfig, "repo cannot be nil")
	case s.ch == nil:
		return errors.Wrap(ErrInvalidAuditServiceConfig, "channel cannot be nil")
	default:
		return nil
	}
}

func NewAuditService(opts ...AuditOption) (*AuditService, error) {
	s := &AuditService{}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	s.subscriber = wmPubsub.New(
		wmPubsub.WithContext(s.ctx),
		wmPubsub.WithLogger(s.logger),
		wmPubsub.WithTopic("audit-events"),
		wmPubsub.WithChannel(s.ch),
		wmPubsub.WithHandler(s.handleEvent),
	)

	return s, nil
}

func (s *AuditService) Start() error {
	return s.subscriber.Subscribe()
}

// Publisher exposes the queue's publish side for the store layer.
func (s *AuditService) Publisher() pubsub.Publisher {
	return s.subscriber.(pubsub.Publisher)
}

func (s *AuditService) handleEvent(data []byte) error {
	var ev repo.AuditEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.logger.Error("failed to unmarshal audit event", "error", err)
		return err
	}

	entry := &models.AuditLog{
		OperationID: ev.OperationID,
		UserID:      ev.UserID,
		Action:      ev.Action,
		EntityID:    ev.EntityID,
		Description: ev.Description,
		OldValues:   ev.OldValues,
		NewValues:   ev.NewValues,
		Metadata:    ev.Metadata,
		IPAddress:   ev.IPAddress,
		UserAgent:   ev.UserAgent,
		CreatedAt:   ev.OccurredAt,
	}

	if err := s.repo.CreateAuditLog(entry); err != nil {
		s.logger.Error("failed to persist audit event", "operation", ev.OperationID, "error", err)
		return err
	}

	return nil
}
