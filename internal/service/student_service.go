package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-billing-api/internal/finance"
	"github.com/noah-isme/school-billing-api/internal/models"
	"github.com/noah-isme/school-billing-api/internal/repository"
	appErrors "github.com/noah-isme/school-billing-api/pkg/errors"
	"github.com/noah-isme/school-billing-api/pkg/export"
)

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Age       int    `json:"age" validate:"gt=0,lt=18"`
}

// Statement formats.
const (
	StatementFormatCSV = "csv"
	StatementFormatPDF = "pdf"
)

// Statement is a rendered financial statement ready to be served.
type Statement struct {
	Filename    string
	ContentType string
	Body        []byte
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// StudentService handles student use-cases, including the financial status view.
type StudentService struct {
	students    studentRepository
	schools     schoolRepository
	memberships membershipRepository
	invoices    invoiceRepository
	payments    paymentRepository
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         QueryConfig
	csv         datasetRenderer
	pdf         datasetRenderer
}

// NewStudentService constructs the student service.
func NewStudentService(students studentRepository, schools schoolRepository, memberships membershipRepository, invoices invoiceRepository, payments paymentRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg QueryConfig) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students:    students,
		schools:     schools,
		memberships: memberships,
		invoices:    invoices,
		payments:    payments,
		validator:   newValidator(validate),
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
	}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	filter.StrictAttributes = filter.StrictAttributes || s.cfg.StrictFilters
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown membership status %q", filter.Status))
	}
	if ignored := repository.IgnoredStudentFilters(filter.Attributes); len(ignored) > 0 && !filter.StrictAttributes {
		s.logger.Debug("ignoring unsupported student filters", zap.Strings("keys", ignored))
	}
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	return students, pagination(filter.Offset, filter.Limit, total), nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	return student, nil
}

// Create registers a new student. Email uniqueness is enforced by the store.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student := &models.Student{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Age:       req.Age,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to create student")
	}
	return student, nil
}

// Delete hard-deletes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.students.Delete(ctx, id)
	return deleteResult(deleted, err, "student")
}

// FinancialStatus returns a copy of the student carrying the sum of all their
// payments and the sum of their PENDING invoices.
func (s *StudentService) FinancialStatus(ctx context.Context, id int64) (*models.Student, error) {
	student, invoices, payments, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, debt := finance.StudentFinancialStatus(finance.Invoices(invoices), finance.Payments(payments))
	result := *student
	result.TotalPaid = models.NewMoney(paid)
	result.TotalDebt = models.NewMoney(debt)
	return &result, nil
}

func (s *StudentService) load(ctx context.Context, id int64) (*models.Student, []models.InvoiceDetail, []models.PaymentDetail, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, nil, nil, lookupError(err, "student")
	}

	start := time.Now()
	invoices, err := collectInvoices(ctx, s.invoices, models.InvoiceFilter{StudentID: &id}, s.cfg.batchSize())
	if err != nil {
		s.logger.Error("collect student invoices failed", zap.Int64("student_id", id), zap.Error(err))
		return nil, nil, nil, appErrors.Internal(err, "failed to compute financial status")
	}
	payments, err := s.payments.List(ctx, models.PaymentFilter{StudentID: &id})
	s.metrics.ObserveDBQuery("student_financial_status", time.Since(start))
	if err != nil {
		s.logger.Error("list student payments failed", zap.Int64("student_id", id), zap.Error(err))
		return nil, nil, nil, appErrors.Internal(err, "failed to compute financial status")
	}
	s.metrics.ObserveAggregation("student_financial_status", len(invoices)+len(payments))
	return student, invoices, payments, nil
}

// Memberships returns the student's school history, most recent first.
func (s *StudentService) Memberships(ctx context.Context, id int64) ([]models.Membership, error) {
	if _, err := s.students.FindByID(ctx, id); err != nil {
		return nil, lookupError(err, "student")
	}
	memberships, err := s.memberships.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list memberships")
	}
	if memberships == nil {
		memberships = []models.Membership{}
	}
	return memberships, nil
}

// CurrentSchool returns the school of the student's most recent ACTIVE membership.
func (s *StudentService) CurrentSchool(ctx context.Context, id int64) (*models.School, error) {
	if _, err := s.students.FindByID(ctx, id); err != nil {
		return nil, lookupError(err, "student")
	}
	membership, err := s.memberships.Current(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no active school")
		}
		return nil, appErrors.Internal(err, "failed to load current membership")
	}
	school, err := s.schools.FindByID(ctx, membership.SchoolID)
	if err != nil {
		return nil, lookupError(err, "school")
	}
	return school, nil
}

// Statement renders the financial status with one line per invoice.
func (s *StudentService) Statement(ctx context.Context, id int64, format string) (*Statement, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	var (
		renderer    datasetRenderer
		contentType string
	)
	switch format {
	case StatementFormatCSV:
		renderer, contentType = s.csv, "text/csv"
	case StatementFormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported statement format %q", format))
	}

	student, invoices, payments, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, debt := finance.StudentFinancialStatus(finance.Invoices(invoices), finance.Payments(payments))

	dataset := export.Dataset{
		Title: fmt.Sprintf("Statement for %s %s", student.FirstName, student.LastName),
		Summary: []export.SummaryLine{
			{Label: "Email", Value: student.Email},
			{Label: "Total paid", Value: paid.StringFixed(finance.Scale)},
			{Label: "Total debt", Value: debt.StringFixed(finance.Scale)},
		},
		Headers: []string{"ref", "date", "school", "status", "value"},
		Rows:    make([]map[string]string, 0, len(invoices)),
	}
	for _, invoice := range invoices {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ref":    invoice.Ref,
			"date":   invoice.Date.Format("2006-01-02"),
			"school": invoice.School.Name,
			"status": string(invoice.Status),
			"value":  invoice.Value.StringFixed(finance.Scale),
		})
	}

	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render statement")
	}
	return &Statement{
		Filename:    fmt.Sprintf("statement-%d.%s", student.ID, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}
