package service

import (
	"context"
	"time"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/RinkiBai/portfolio-backend/internal/contact/guard"
	"github.com/RinkiBai/portfolio-backend/internal/contact/sanitize"
	"github.com/RinkiBai/portfolio-backend/internal/contact/validate"
	"go.uber.org/zap"
)

// Store persists submissions.
type Store interface {
	Create(ctx context.Context, f domain.Fields) (*domain.Submission, error)
	List(ctx context.Context, page, limit int) (*domain.Page, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// Notifier accepts stored submissions for asynchronous delivery.
type Notifier interface {
	Enqueue(s *domain.Submission) error
}

const storeTimeout = 10 * time.Second

// ContactService runs the submission pipeline after the rate limiter:
// validate, verify, sanitize, store, then hand off to the notifier.
type ContactService struct {
	validator *validate.Validator
	verifier  guard.Verifier
	store     Store
	notifier  Notifier
	logger    *zap.Logger
}

func NewContactService(v *validate.Validator, verifier guard.Verifier, store Store, notifier Notifier, logger *zap.Logger) *ContactService {
	if verifier == nil {
		verifier = guard.NoopVerifier{}
	}
	return &ContactService{
		validator: v,
		verifier:  verifier,
		store:     store,
		notifier:  notifier,
		logger:    logger,
	}
}

// Submit validates and stores one contact-form submission. Notification
// failures are logged and never change the result.
func (s *ContactService) Submit(ctx context.Context, in domain.SubmissionInput) (*domain.Submission, error) {
	// Length rules apply to the text that is stored, after markup is gone.
	fields, err := s.validator.Validate(sanitize.Strict(in.Name), in.Email, sanitize.Strict(in.Message))
	if err != nil {
		return nil, err
	}

	if err := s.verifier.Verify(ctx, in.Token, in.ClientIP); err != nil {
		return nil, err
	}

	// The write outlives a disconnected client.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	sub, err := s.store.Create(storeCtx, fields)
	if err != nil {
		s.logger.Error("failed to store submission", zap.String("client_ip", in.ClientIP), zap.Error(err))
		return nil, err
	}

	if err := s.notifier.Enqueue(sub); err != nil {
		s.logger.Error("failed to queue notification",
			zap.String("submission_id", sub.ID), zap.Error(err))
	}

	s.logger.Info("contact submission stored",
		zap.String("submission_id", sub.ID),
		zap.String("client_ip", in.ClientIP),
	)
	return sub, nil
}

// List returns one newest-first page of submissions.
func (s *ContactService) List(ctx context.Context, page, limit int) (*domain.Page, error) {
	return s.store.List(ctx, page, limit)
}

// Delete removes a submission by id; domain.ErrNotFound when it does not exist.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.logger.Info("contact submission deleted", zap.String("submission_id", id))
	return nil
}
