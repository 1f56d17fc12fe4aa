package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/school-billing-api/internal/models"
	appErrors "github.com/noah-isme/school-billing-api/pkg/errors"
)

// CreatePaymentRequest records money received against an invoice.
type CreatePaymentRequest struct {
	Ref       string          `json:"ref" validate:"required,max=255"`
	Value     decimal.Decimal `json:"value" swaggertype:"string" example:"60.00"`
	Date      time.Time       `json:"date" validate:"required"`
	InvoiceID int64           `json:"invoice_id" validate:"required,gt=0"`
}

// PaymentService handles payment use-cases.
type PaymentService struct {
	payments  paymentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(payments paymentRepository, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{payments: payments, validator: newValidator(validate), logger: logger}
}

// List returns every payment matching the filter with its invoice.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	payments, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list payments")
	}
	if payments == nil {
		payments = []models.PaymentDetail{}
	}
	return payments, nil
}

// Create records a payment. The invoice status is left untouched.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid payment payload")
	}
	if err := checkMoney(req.Value, "value"); err != nil {
		return nil, err
	}
	payment := &models.Payment{
		Ref:       req.Ref,
		Value:     req.Value,
		Date:      req.Date.UTC(),
		InvoiceID: req.InvoiceID,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, appErrors.Internal(err, "failed to create payment")
	}
	return payment, nil
}

// Delete hard-deletes a payment.
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.payments.Delete(ctx, id)
	return deleteResult(deleted, err, "payment")
}
