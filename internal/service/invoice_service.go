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

// CreateInvoiceRequest holds payload for billing a student.
type CreateInvoiceRequest struct {
	Ref       string               `json:"ref" validate:"required,max=255"`
	Value     decimal.Decimal      `json:"value" swaggertype:"string" example:"120.50"`
	Date      time.Time            `json:"date" validate:"required"`
	Status    models.InvoiceStatus `json:"status" validate:"omitempty,oneof=PENDING PAID"`
	StudentID int64                `json:"student_id" validate:"required,gt=0"`
	SchoolID  int64                `json:"school_id" validate:"required,gt=0"`
}

// UpdateInvoiceStatusRequest sets an invoice status.
type UpdateInvoiceStatusRequest struct {
	Status models.InvoiceStatus `json:"status" validate:"required,oneof=PENDING PAID"`
}

// InvoiceService handles invoice use-cases.
type InvoiceService struct {
	invoices  invoiceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInvoiceService constructs the invoice service.
func NewInvoiceService(invoices invoiceRepository, validate *validator.Validate, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{invoices: invoices, validator: newValidator(validate), logger: logger}
}

// List returns invoices with their student and school, oldest first.
func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceDetail, *models.Pagination, error) {
	invoices, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list invoices")
	}
	return invoices, pagination(filter.Offset, filter.Limit, total), nil
}

// Create bills a student. Missing students or schools surface as constraint
// violations from the store.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid invoice payload")
	}
	if err := checkMoney(req.Value, "value"); err != nil {
		return nil, err
	}
	invoice := &models.Invoice{
		Ref:       req.Ref,
		Value:     req.Value,
		Date:      req.Date.UTC(),
		Status:    req.Status,
		StudentID: req.StudentID,
		SchoolID:  req.SchoolID,
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusPending
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, appErrors.Internal(err, "failed to create invoice")
	}
	return invoice, nil
}

// UpdateStatus sets the invoice status without consulting payments.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id int64, req UpdateInvoiceStatusRequest) (*models.InvoiceDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid invoice status")
	}
	updated, err := s.invoices.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to update invoice status")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
	}
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "invoice")
	}
	return invoice, nil
}

// Delete hard-deletes an invoice.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.invoices.Delete(ctx, id)
	return deleteResult(deleted, err, "invoice")
}
