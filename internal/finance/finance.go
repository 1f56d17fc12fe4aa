// Package finance derives balances from invoice and payment records that were
// already loaded by the caller. Nothing here touches storage, so the sums can
// later move into an SQL aggregate without changing call sites.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-billing-api/internal/models"
)

// Scale is the number of fractional digits money carries.
const Scale = models.MoneyScale

// StudentFinancialStatus returns the sum of every payment value and the sum of
// the values of PENDING invoices. Payments are not netted against debt and are
// not checked against the invoice set.
func StudentFinancialStatus(invoices []models.Invoice, payments []models.Payment) (totalPaid, totalDebt decimal.Decimal) {
	totalPaid = decimal.Zero
	for _, payment := range payments {
		totalPaid = totalPaid.Add(payment.Value)
	}
	return totalPaid.Round(Scale), pendingTotal(invoices)
}

// SchoolTotalDebt sums the values of PENDING invoices. Scoping to one school
// is the caller's job.
func SchoolTotalDebt(invoices []models.Invoice) decimal.Decimal {
	return pendingTotal(invoices)
}

func pendingTotal(invoices []models.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, invoice := range invoices {
		if invoice.Status == models.InvoiceStatusPending {
			total = total.Add(invoice.Value)
		}
	}
	return total.Round(Scale)
}

// Invoices strips the nested records off invoice details.
func Invoices(details []models.InvoiceDetail) []models.Invoice {
	out := make([]models.Invoice, 0, len(details))
	for _, detail := range details {
		out = append(out, detail.Invoice)
	}
	return out
}

// Payments strips the nested invoice off payment details.
func Payments(details []models.PaymentDetail) []models.Payment {
	out := make([]models.Payment, 0, len(details))
	for _, detail := range details {
		out = append(out, detail.Payment)
	}
	return out
}
