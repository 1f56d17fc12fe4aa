package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-billing-api/internal/finance"
	"github.com/noah-isme/school-billing-api/internal/models"
	"github.com/noah-isme/school-billing-api/internal/repository"
	appErrors "github.com/noah-isme/school-billing-api/pkg/errors"
)

// QueryConfig carries listing and aggregation tuning shared by the services.
type QueryConfig struct {
	StrictFilters bool
	// BatchSize is the page size used when walking every invoice of a
	// school or student. The store caps it at repository.MaxLimit.
	BatchSize int
}

func (c QueryConfig) batchSize() int {
	if c.BatchSize <= 0 || c.BatchSize > repository.MaxLimit {
		return repository.MaxLimit
	}
	return c.BatchSize
}

// lookupError maps a FindByID failure to NotFound or an internal error.
func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Internal(err, fmt.Sprintf("failed to load %s", entity))
}

func deleteResult(deleted bool, err error, entity string) error {
	if err != nil {
		return appErrors.Internal(err, fmt.Sprintf("failed to delete %s", entity))
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return nil
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func newValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		return validator.New()
	}
	return validate
}

// maxMoney is the first value NUMERIC(10,2) cannot hold.
var maxMoney = decimal.New(1, 8)

// checkMoney accepts strictly positive amounts below maxMoney with at most two
// decimals.
func checkMoney(value decimal.Decimal, field string) error {
	if !value.IsPositive() {
		return appErrors.Clone(appErrors.ErrValidation, field+" must be greater than zero")
	}
	if value.GreaterThanOrEqual(maxMoney) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be less than %s", field, maxMoney.String()))
	}
	if !value.Equal(value.Round(finance.Scale)) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must have at most %d decimal places", field, finance.Scale))
	}
	return nil
}

func pagination(offset, limit, total int) *models.Pagination {
	offset, limit = repository.NormalizePage(offset, limit)
	return models.NewPagination(offset, limit, total)
}

type invoiceLister interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceDetail, int, error)
}

// collectInvoices walks every page of a filtered invoice listing. Memory grows
// with the number of invoices; the first failing page aborts the walk.
func collectInvoices(ctx context.Context, repo invoiceLister, filter models.InvoiceFilter, batch int) ([]models.InvoiceDetail, error) {
	var all []models.InvoiceDetail
	filter.Offset, filter.Limit = 0, batch
	for {
		page, total, err := repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			return all, nil
		}
		filter.Offset += len(page)
	}
}
