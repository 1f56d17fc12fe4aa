package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/school-billing-api/internal/models"
)

func invoice(value string, status models.InvoiceStatus) models.Invoice {
	return models.Invoice{Value: decimal.RequireFromString(value), Status: status}
}

func payment(value string) models.Payment {
	return models.Payment{Value: decimal.RequireFromString(value)}
}

func TestStudentFinancialStatusEmpty(t *testing.T) {
	paid, debt := StudentFinancialStatus(nil, nil)
	assert.True(t, paid.IsZero())
	assert.True(t, debt.IsZero())
}

func TestStudentFinancialStatusDoesNotNetPayments(t *testing.T) {
	paid, debt := StudentFinancialStatus(
		[]models.Invoice{invoice("100.00", models.InvoiceStatusPending)},
		[]models.Payment{payment("100.00")},
	)
	assert.Equal(t, "100.00", paid.StringFixed(Scale))
	assert.Equal(t, "100.00", debt.StringFixed(Scale))
}

func TestStudentFinancialStatusCountsPaymentsOnPaidInvoices(t *testing.T) {
	paid, debt := StudentFinancialStatus(
		[]models.Invoice{
			invoice("50.00", models.InvoiceStatusPaid),
			invoice("25.50", models.InvoiceStatusPending),
		},
		[]models.Payment{payment("50.00"), payment("10.25")},
	)
	assert.True(t, decimal.RequireFromString("60.25").Equal(paid))
	assert.True(t, decimal.RequireFromString("25.50").Equal(debt))
}

func TestStudentFinancialStatusHasNoFloatDrift(t *testing.T) {
	payments := make([]models.Payment, 0, 10)
	for i := 0; i < 10; i++ {
		payments = append(payments, payment("0.10"))
	}
	paid, _ := StudentFinancialStatus(nil, payments)
	assert.True(t, decimal.RequireFromString("1.00").Equal(paid))
}

func TestSchoolTotalDebt(t *testing.T) {
	debt := SchoolTotalDebt([]models.Invoice{
		invoice("80", models.InvoiceStatusPending),
		invoice("20", models.InvoiceStatusPaid),
		invoice("40", models.InvoiceStatusPending),
	})
	assert.True(t, decimal.NewFromInt(120).Equal(debt))
}

func TestSchoolTotalDebtEmpty(t *testing.T) {
	assert.True(t, SchoolTotalDebt(nil).IsZero())
}

func TestDetailProjections(t *testing.T) {
	details := []models.InvoiceDetail{{Invoice: models.Invoice{ID: 7}}}
	assert.Equal(t, int64(7), Invoices(details)[0].ID)

	pays := []models.PaymentDetail{{Payment: models.Payment{ID: 9}}}
	assert.Equal(t, int64(9), Payments(pays)[0].ID)
}
