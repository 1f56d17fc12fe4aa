package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-billing-api/internal/models"
)

const paymentDetailColumns = `p.id, p.ref, p.invoice_id, p.value, p.date, p.created_at,
        i.id AS "invoice.id", i.ref AS "invoice.ref", i.student_id AS "invoice.student_id", i.school_id AS "invoice.school_id",
        i.value AS "invoice.value", i.date AS "invoice.date", i.status AS "invoice.status", i.created_at AS "invoice.created_at",
        st.id AS "invoice.student.id", st.first_name AS "invoice.student.first_name", st.last_name AS "invoice.student.last_name",
        st.email AS "invoice.student.email", st.age AS "invoice.student.age", st.created_at AS "invoice.student.created_at",
        sc.id AS "invoice.school.id", sc.ref AS "invoice.school.ref", sc.name AS "invoice.school.name", sc.created_at AS "invoice.school.created_at"`

// PaymentRepository manages payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns every matching payment with its invoice, student and school.
// It is not paginated, so the result grows with the payment history.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	w := &whereBuilder{}
	if filter.StudentID != nil {
		w.add("i.student_id = ?", *filter.StudentID)
	}
	query := fmt.Sprintf(`SELECT %s FROM payments p
        JOIN invoices i ON i.id = p.invoice_id
        JOIN students st ON st.id = i.student_id
        JOIN schools sc ON sc.id = i.school_id%s ORDER BY p.created_at ASC, p.id ASC`, paymentDetailColumns, w.clause())

	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, r.db.Rebind(query), w.args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// Create inserts a payment. A missing invoice surfaces as a constraint violation.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payments (ref, value, date, created_at, invoice_id) VALUES (?, ?, ?, ?, ?) RETURNING id`
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		payment.Ref, payment.Value, payment.Date, payment.CreatedAt, payment.InvoiceID,
	).Scan(&payment.ID)
	return translateError(err, "create payment")
}

// Delete hard-deletes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return deleteByID(ctx, r.db, "payments", id)
}
