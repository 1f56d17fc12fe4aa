package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-billing-api/internal/models"
)

// Nested aliases are resolved by sqlx into InvoiceDetail.Student / .School.
const invoiceDetailColumns = `i.id, i.ref, i.student_id, i.school_id, i.value, i.date, i.status, i.created_at,
        st.id AS "student.id", st.first_name AS "student.first_name", st.last_name AS "student.last_name",
        st.email AS "student.email", st.age AS "student.age", st.created_at AS "student.created_at",
        sc.id AS "school.id", sc.ref AS "school.ref", sc.name AS "school.name", sc.created_at AS "school.created_at"`

const invoiceJoins = `FROM invoices i
        JOIN students st ON st.id = i.student_id
        JOIN schools sc ON sc.id = i.school_id`

// InvoiceRepository manages invoices.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository constructs an InvoiceRepository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// List returns a page of invoices, oldest first, each with its student and
// school, and the total matching the same predicate.
func (r *InvoiceRepository) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceDetail, int, error) {
	w := &whereBuilder{}
	if filter.SchoolID != nil {
		w.add("i.school_id = ?", *filter.SchoolID)
	}
	if filter.StudentID != nil {
		w.add("i.student_id = ?", *filter.StudentID)
	}

	base := invoiceJoins + w.clause()
	offset, limit := NormalizePage(filter.Offset, filter.Limit)
	query := fmt.Sprintf("SELECT %s %s ORDER BY i.created_at ASC, i.id ASC LIMIT %d OFFSET %d", invoiceDetailColumns, base, limit, offset)

	var invoices []models.InvoiceDetail
	if err := r.db.SelectContext(ctx, &invoices, r.db.Rebind(query), w.args...); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) "+base), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	return invoices, total, nil
}

// FindByID fetches an invoice with its student and school. It returns
// sql.ErrNoRows when absent.
func (r *InvoiceRepository) FindByID(ctx context.Context, id int64) (*models.InvoiceDetail, error) {
	query := "SELECT " + invoiceDetailColumns + " " + invoiceJoins + " WHERE i.id = ?"
	var invoice models.InvoiceDetail
	if err := r.db.GetContext(ctx, &invoice, r.db.Rebind(query), id); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Create inserts an invoice and fills in the generated ID.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO invoices (ref, value, date, status, created_at, student_id, school_id)
        VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		invoice.Ref, invoice.Value, invoice.Date, invoice.Status, invoice.CreatedAt, invoice.StudentID, invoice.SchoolID,
	).Scan(&invoice.ID)
	return translateError(err, "create invoice")
}

// UpdateStatus sets the invoice status. Payments are not consulted.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE invoices SET status = ? WHERE id = ?"), status, id)
	if err != nil {
		return false, translateError(err, "update invoice status")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update invoice status: %w", err)
	}
	return affected > 0, nil
}

// Delete hard-deletes an invoice.
func (r *InvoiceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return deleteByID(ctx, r.db, "invoices", id)
}
