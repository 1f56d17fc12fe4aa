package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is set independently of recorded payments.
type InvoiceStatus string

// Possible invoice statuses.
const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// Valid reports whether the status is one of the known values.
func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice is an amount billed by a school to a student.
type Invoice struct {
	ID        int64           `db:"id" json:"id"`
	Ref       string          `db:"ref" json:"ref"`
	StudentID int64           `db:"student_id" json:"student_id"`
	SchoolID  int64           `db:"school_id" json:"school_id"`
	Value     decimal.Decimal `db:"value" json:"value"`
	Date      time.Time       `db:"date" json:"date"`
	Status    InvoiceStatus   `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// InvoiceDetail enriches Invoice with its student and school records.
type InvoiceDetail struct {
	Invoice
	Student Student `db:"student" json:"student"`
	School  School  `db:"school" json:"school"`
}

// InvoiceFilter provides filters for listing invoices.
type InvoiceFilter struct {
	SchoolID  *int64
	StudentID *int64
	Offset    int
	Limit     int
}
