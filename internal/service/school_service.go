package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-billing-api/internal/finance"
	"github.com/noah-isme/school-billing-api/internal/models"
	"github.com/noah-isme/school-billing-api/internal/repository"
	appErrors "github.com/noah-isme/school-billing-api/pkg/errors"
)

// CreateSchoolRequest holds payload for creating schools.
type CreateSchoolRequest struct {
	Ref  string `json:"ref" validate:"required,max=255"`
	Name string `json:"name" validate:"required,max=255"`
}

// EnrollStudentRequest adds a membership row between a school and a student.
type EnrollStudentRequest struct {
	StudentID int64                   `json:"student_id" validate:"required,gt=0"`
	Status    models.MembershipStatus `json:"status" validate:"omitempty,oneof=ACTIVE DEACTIVATED"`
	JoinedAt  *time.Time              `json:"joined_at"`
}

// UpdateMembershipRequest changes the status of a membership.
type UpdateMembershipRequest struct {
	Status models.MembershipStatus `json:"status" validate:"required,oneof=ACTIVE DEACTIVATED"`
}

// SchoolService handles school use-cases, including the debt view.
type SchoolService struct {
	schools     schoolRepository
	students    studentRepository
	memberships membershipRepository
	invoices    invoiceRepository
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         QueryConfig
}

// NewSchoolService constructs the school service.
func NewSchoolService(schools schoolRepository, students studentRepository, memberships membershipRepository, invoices invoiceRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg QueryConfig) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{
		schools:     schools,
		students:    students,
		memberships: memberships,
		invoices:    invoices,
		validator:   newValidator(validate),
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// List returns schools and pagination metadata.
func (s *SchoolService) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, *models.Pagination, error) {
	filter.StrictAttributes = filter.StrictAttributes || s.cfg.StrictFilters
	if ignored := repository.IgnoredSchoolFilters(filter.Attributes); len(ignored) > 0 && !filter.StrictAttributes {
		s.logger.Debug("ignoring unsupported school filters", zap.Strings("keys", ignored))
	}
	schools, total, err := s.schools.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list schools")
	}
	return schools, pagination(filter.Offset, filter.Limit, total), nil
}

// Get returns a school by ID.
func (s *SchoolService) Get(ctx context.Context, id int64) (*models.School, error) {
	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "school")
	}
	return school, nil
}

// Create registers a new school.
func (s *SchoolService) Create(ctx context.Context, req CreateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid school payload")
	}
	school := &models.School{Ref: req.Ref, Name: req.Name}
	if err := s.schools.Create(ctx, school); err != nil {
		return nil, appErrors.Internal(err, "failed to create school")
	}
	return school, nil
}

// Delete hard-deletes a school.
func (s *SchoolService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.schools.Delete(ctx, id)
	return deleteResult(deleted, err, "school")
}

// Students returns a copy of the school carrying one page of its ACTIVE
// students, or of its DEACTIVATED students when active is false, together
// with the number of students matching that status.
func (s *SchoolService) Students(ctx context.Context, schoolID int64, active bool, offset, limit int) (*models.School, int, error) {
	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		return nil, 0, lookupError(err, "school")
	}

	status := models.MembershipStatusDeactivated
	if active {
		status = models.MembershipStatusActive
	}
	start := time.Now()
	students, total, err := s.students.List(ctx, models.StudentFilter{
		SchoolID: &schoolID,
		Status:   status,
		Offset:   offset,
		Limit:    limit,
	})
	s.metrics.ObserveDBQuery("school_students", time.Since(start))
	if err != nil {
		s.logger.Error("list school students failed", zap.Int64("school_id", schoolID), zap.Error(err))
		return nil, 0, appErrors.Internal(err, "failed to list school students")
	}

	result := *school
	result.Students = students
	if result.Students == nil {
		result.Students = []models.Student{}
	}
	return &result, total, nil
}

// Debt returns a copy of the school with the sum of its PENDING invoices.
func (s *SchoolService) Debt(ctx context.Context, schoolID int64) (*models.School, error) {
	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		return nil, lookupError(err, "school")
	}

	start := time.Now()
	invoices, err := collectInvoices(ctx, s.invoices, models.InvoiceFilter{SchoolID: &schoolID}, s.cfg.batchSize())
	s.metrics.ObserveDBQuery("school_debt", time.Since(start))
	if err != nil {
		s.logger.Error("collect school invoices failed", zap.Int64("school_id", schoolID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to compute school debt")
	}
	s.metrics.ObserveAggregation("school_debt", len(invoices))

	debt := finance.SchoolTotalDebt(finance.Invoices(invoices))
	result := *school
	result.TotalDebt = models.NewMoney(debt)
	return &result, nil
}

// Enroll records that a student joined a school.
func (s *SchoolService) Enroll(ctx context.Context, schoolID int64, req EnrollStudentRequest) (*models.Membership, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid membership payload")
	}
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, lookupError(err, "school")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student")
	}

	membership := &models.Membership{
		SchoolID:  schoolID,
		StudentID: req.StudentID,
		Status:    req.Status,
	}
	if membership.Status == "" {
		membership.Status = models.MembershipStatusActive
	}
	if req.JoinedAt != nil {
		membership.JoinedAt = req.JoinedAt.UTC()
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, appErrors.Internal(err, "failed to enroll student")
	}
	s.logger.Info("student enrolled",
		zap.Int64("school_id", schoolID),
		zap.Int64("student_id", req.StudentID),
		zap.String("status", string(membership.Status)),
	)
	return membership, nil
}

// SetMembershipStatus activates or deactivates the most recent membership
// between the school and the student.
func (s *SchoolService) SetMembershipStatus(ctx context.Context, schoolID, studentID int64, req UpdateMembershipRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid membership payload")
	}
	updated, err := s.memberships.SetStatus(ctx, schoolID, studentID, req.Status)
	if err != nil {
		return appErrors.Internal(err, "failed to update membership")
	}
	if !updated {
		return appErrors.Clone(appErrors.ErrNotFound, "membership not found")
	}
	return nil
}

// Unenroll removes the most recent membership row linking the student to the
// school. Older rows stay in the student's history.
func (s *SchoolService) Unenroll(ctx context.Context, schoolID, studentID int64) error {
	history, err := s.memberships.ListByStudent(ctx, studentID)
	if err != nil {
		return appErrors.Internal(err, "failed to load memberships")
	}
	for _, membership := range history {
		if membership.SchoolID != schoolID {
			continue
		}
		deleted, err := s.memberships.Delete(ctx, membership.ID)
		if err := deleteResult(deleted, err, "membership"); err != nil {
			return err
		}
		s.logger.Info("student unenrolled",
			zap.Int64("school_id", schoolID),
			zap.Int64("student_id", studentID),
			zap.Int64("membership_id", membership.ID),
		)
		return nil
	}
	return appErrors.Clone(appErrors.ErrNotFound, "membership not found")
}
