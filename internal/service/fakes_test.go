package service

import (
	"context"
	"database/sql"

	"github.com/noah-isme/school-billing-api/internal/models"
	"github.com/noah-isme/school-billing-api/internal/repository"
)

type fakeStudentRepo struct {
	students   map[int64]models.Student
	lastFilter models.StudentFilter
	listed     []models.Student
	listTotal  int
	nextID     int64
	err        error
}

func (f *fakeStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.listed, f.listTotal, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if f.err != nil {
		return f.err
	}
	if f.students == nil {
		f.students = make(map[int64]models.Student)
	}
	f.nextID++
	student.ID = f.nextID
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := f.students[id]; !ok {
		return false, nil
	}
	delete(f.students, id)
	return true, nil
}

type fakeSchoolRepo struct {
	schools    map[int64]models.School
	lastFilter models.SchoolFilter
	nextID     int64
}

func (f *fakeSchoolRepo) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error) {
	f.lastFilter = filter
	out := make([]models.School, 0, len(f.schools))
	for _, s := range f.schools {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeSchoolRepo) FindByID(ctx context.Context, id int64) (*models.School, error) {
	if s, ok := f.schools[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSchoolRepo) Create(ctx context.Context, school *models.School) error {
	if f.schools == nil {
		f.schools = make(map[int64]models.School)
	}
	f.nextID++
	school.ID = f.nextID
	f.schools[school.ID] = *school
	return nil
}

func (f *fakeSchoolRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := f.schools[id]; !ok {
		return false, nil
	}
	delete(f.schools, id)
	return true, nil
}

type fakeMembershipRepo struct {
	rows []models.Membership
}

func (f *fakeMembershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	membership.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *membership)
	return nil
}

func (f *fakeMembershipRepo) ListByStudent(ctx context.Context, studentID int64) ([]models.Membership, error) {
	var out []models.Membership
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].StudentID == studentID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) Current(ctx context.Context, studentID int64) (*models.Membership, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].StudentID == studentID && f.rows[i].Status == models.MembershipStatusActive {
			m := f.rows[i]
			return &m, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMembershipRepo) SetStatus(ctx context.Context, schoolID, studentID int64, status models.MembershipStatus) (bool, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].SchoolID == schoolID && f.rows[i].StudentID == studentID {
			f.rows[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMembershipRepo) Delete(ctx context.Context, id int64) (bool, error) {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeInvoiceRepo pages like the real store and can fail on the n-th List call.
type fakeInvoiceRepo struct {
	invoices  []models.InvoiceDetail
	calls     int
	failOn    int
	failErr   error
	updateErr error
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceDetail, int, error) {
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return nil, 0, f.failErr
	}
	var matched []models.InvoiceDetail
	for _, inv := range f.invoices {
		if filter.SchoolID != nil && inv.SchoolID != *filter.SchoolID {
			continue
		}
		if filter.StudentID != nil && inv.StudentID != *filter.StudentID {
			continue
		}
		matched = append(matched, inv)
	}
	offset, limit := repository.NormalizePage(filter.Offset, filter.Limit)
	if offset >= len(matched) {
		return []models.InvoiceDetail{}, len(matched), nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], len(matched), nil
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, id int64) (*models.InvoiceDetail, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			found := inv
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	invoice.ID = int64(len(f.invoices) + 1)
	f.invoices = append(f.invoices, models.InvoiceDetail{Invoice: *invoice})
	return nil
}

func (f *fakeInvoiceRepo) UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			f.invoices[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, id int64) (bool, error) {
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			f.invoices = append(f.invoices[:i], f.invoices[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakePaymentRepo struct {
	payments   []models.PaymentDetail
	lastFilter models.PaymentFilter
	err        error
}

func (f *fakePaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.payments, nil
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = int64(len(f.payments) + 1)
	f.payments = append(f.payments, models.PaymentDetail{Payment: *payment})
	return nil
}

func (f *fakePaymentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	for i := range f.payments {
		if f.payments[i].ID == id {
			f.payments = append(f.payments[:i], f.payments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
