package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-billing-api/internal/models"
	"github.com/noah-isme/school-billing-api/internal/service"
	"github.com/noah-isme/school-billing-api/pkg/response"
)

type invoiceService interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceDetail, *models.Pagination, error)
	Create(ctx context.Context, req service.CreateInvoiceRequest) (*models.Invoice, error)
	UpdateStatus(ctx context.Context, id int64, req service.UpdateInvoiceStatusRequest) (*models.InvoiceDetail, error)
	Delete(ctx context.Context, id int64) error
}

type paymentService interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error)
	Create(ctx context.Context, req service.CreatePaymentRequest) (*models.Payment, error)
	Delete(ctx context.Context, id int64) error
}

// InvoiceHandler exposes invoice and payment endpoints.
type InvoiceHandler struct {
	invoices invoiceService
	payments paymentService
	paging   Paging
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(invoices invoiceService, payments paymentService, paging Paging) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, payments: payments, paging: paging.withDefaults()}
}

// List godoc
// @Summary List invoices, oldest first
// @Tags Invoices
// @Produce json
// @Param school_id query int false "Filter by school"
// @Param student_id query int false "Filter by student"
// @Param page query int false "Page (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	offset, limit, err := h.paging.parse(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.InvoiceFilter{Offset: offset, Limit: limit}
	if filter.SchoolID, err = optionalID(c, "school_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.StudentID, err = optionalID(c, "student_id"); err != nil {
		response.Error(c, err)
		return
	}
	invoices, pagination, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, invoices, pagination)
}

// Create godoc
// @Summary Create invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param payload body service.CreateInvoiceRequest true "Invoice payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	invoice, err := h.invoices.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice)
}

// UpdateStatus godoc
// @Summary Set invoice status
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param payload body service.UpdateInvoiceStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	invoice, err := h.invoices.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// Delete godoc
// @Summary Delete invoice
// @Tags Invoices
// @Param id path int true "Invoice ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPayments godoc
// @Summary List payments with their invoices
// @Description Not paginated.
// @Tags Payments
// @Produce json
// @Param student_id query int false "Filter by the invoiced student"
// @Success 200 {object} response.Envelope
// @Router /invoices/payments [get]
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	studentID, err := optionalID(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	payments, err := h.payments.List(c.Request.Context(), models.PaymentFilter{StudentID: studentID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, nil)
}

// CreatePayment godoc
// @Summary Record a payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /invoices/payments [post]
func (h *InvoiceHandler) CreatePayment(c *gin.Context) {
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	payment, err := h.payments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// DeletePayment godoc
// @Summary Delete payment
// @Tags Payments
// @Param id path int true "Payment ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /invoices/payments/{id} [delete]
func (h *InvoiceHandler) DeletePayment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.payments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
