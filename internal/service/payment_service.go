package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorlink/course-api/internal/dto"
	"github.com/mentorlink/course-api/internal/models"
	appErrors "github.com/mentorlink/course-api/pkg/errors"
)

type paymentStore interface {
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) error
}

// PaymentService is the mutation inlet for payment outcomes. A payment flip
// can move a whole enrollment out of (or back into) the payment gate, so the
// owning enrollment is recomputed synchronously.
type PaymentService struct {
	payments paymentStore
	sessions sessionFinder
	recalc   enrollmentRecalculator
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments paymentStore, sessions sessionFinder, recalc enrollmentRecalculator, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{payments: payments, sessions: sessions, recalc: recalc, validate: validate, logger: logger}
}

// UpdateStatus records a payment outcome and returns the enrollment state
// recomputed from it.
func (s *PaymentService) UpdateStatus(ctx context.Context, paymentID string, req dto.UpdatePaymentStatusRequest) (*dto.MutationResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment status update")
	}

	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load payment")
	}

	status := models.PaymentStatus(req.Status)
	if payment.Status != status {
		if err := s.payments.UpdateStatus(ctx, paymentID, status); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to update payment")
		}
	}

	session, err := s.sessions.FindByID(ctx, payment.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load owning session")
	}
	key := models.EnrollmentKey{StudentID: session.StudentID, MentorID: session.MentorID, Skill: session.Skill}

	resp := &dto.MutationResponse{
		ID:        paymentID,
		Status:    req.Status,
		StudentID: key.StudentID,
		MentorID:  key.MentorID,
		Skill:     key.Skill,
	}

	state, err := s.recalc.RecalculateOne(ctx, key)
	if err != nil {
		s.logger.Error("post-mutation recalculation failed",
			zap.String("payment_id", paymentID),
			zap.String("student_id", key.StudentID),
			zap.Error(err))
		return resp, nil
	}
	resp.State = string(state)
	return resp, nil
}
