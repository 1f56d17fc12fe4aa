package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money received against an invoice. Partial payments and
// overpayments are both allowed.
type Payment struct {
	ID        int64           `db:"id" json:"id"`
	Ref       string          `db:"ref" json:"ref"`
	InvoiceID int64           `db:"invoice_id" json:"invoice_id"`
	Value     decimal.Decimal `db:"value" json:"value"`
	Date      time.Time       `db:"date" json:"date"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// PaymentDetail enriches Payment with the invoice it settles.
type PaymentDetail struct {
	Payment
	Invoice InvoiceDetail `db:"invoice" json:"invoice"`
}

// PaymentFilter provides filters for listing payments.
type PaymentFilter struct {
	StudentID *int64
}
