package service

import (
	"context"

	"github.com/noah-isme/school-billing-api/internal/models"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type schoolRepository interface {
	List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error)
	FindByID(ctx context.Context, id int64) (*models.School, error)
	Create(ctx context.Context, school *models.School) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type membershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	ListByStudent(ctx context.Context, studentID int64) ([]models.Membership, error)
	Current(ctx context.Context, studentID int64) (*models.Membership, error)
	SetStatus(ctx context.Context, schoolID, studentID int64, status models.MembershipStatus) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type invoiceRepository interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.InvoiceDetail, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error)
	Create(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id int64) (bool, error)
}
