package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-billing-api/internal/models"
	appErrors "github.com/noah-isme/school-billing-api/pkg/errors"
)

type schoolFixture struct {
	schools     *fakeSchoolRepo
	students    *fakeStudentRepo
	memberships *fakeMembershipRepo
	invoices    *fakeInvoiceRepo
	svc         *SchoolService
}

func newSchoolFixture(cfg QueryConfig) *schoolFixture {
	f := &schoolFixture{
		schools:     &fakeSchoolRepo{schools: map[int64]models.School{1: {ID: 1, Ref: "SCH1", Name: "Springfield"}}},
		students:    &fakeStudentRepo{students: map[int64]models.Student{7: {ID: 7, FirstName: "Alice", Email: "alice@test.com", Age: 16}}},
		memberships: &fakeMembershipRepo{},
		invoices:    &fakeInvoiceRepo{},
	}
	f.svc = NewSchoolService(f.schools, f.students, f.memberships, f.invoices, validator.New(), NewMetricsService(), zap.NewNop(), cfg)
	return f
}

func invoice(id, schoolID, studentID int64, value string, status models.InvoiceStatus) models.InvoiceDetail {
	return models.InvoiceDetail{Invoice: models.Invoice{
		ID: id, Ref: fmt.Sprintf("INV%03d", id), SchoolID: schoolID, StudentID: studentID,
		Value: decimal.RequireFromString(value), Status: status,
	}}
}

func TestSchoolServiceStudentsActiveFilter(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})
	f.students.listed = []models.Student{{ID: 7}, {ID: 8}}
	f.students.listTotal = 2

	school, total, err := f.svc.Students(context.Background(), 1, true, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, school.Students, 2)
	assert.Equal(t, models.MembershipStatusActive, f.students.lastFilter.Status)
	require.NotNil(t, f.students.lastFilter.SchoolID)
	assert.Equal(t, int64(1), *f.students.lastFilter.SchoolID)

	_, _, err = f.svc.Students(context.Background(), 1, false, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusDeactivated, f.students.lastFilter.Status)
}

func TestSchoolServiceStudentsDoesNotMutateLoadedSchool(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})
	school, _, err := f.svc.Students(context.Background(), 1, true, 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, school.Students)
	assert.Nil(t, f.schools.schools[1].Students)
}

func TestSchoolServiceStudentsUnknownSchool(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})
	_, _, err := f.svc.Students(context.Background(), 99, true, 0, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSchoolServiceDebt(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})
	f.invoices.invoices = []models.InvoiceDetail{
		invoice(1, 1, 7, "80.00", models.InvoiceStatusPending),
		invoice(2, 1, 7, "40.00", models.InvoiceStatusPending),
		invoice(3, 1, 7, "500.00", models.InvoiceStatusPaid),
		invoice(4, 2, 7, "999.00", models.InvoiceStatusPending),
	}

	school, err := f.svc.Debt(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, school.TotalDebt)
	assert.Equal(t, "120.00", school.TotalDebt.StringFixed(2))
	assert.Nil(t, f.schools.schools[1].TotalDebt)
}

func TestSchoolServiceDebtWalksEveryPage(t *testing.T) {
	f := newSchoolFixture(QueryConfig{BatchSize: 100})
	for i := int64(1); i <= 250; i++ {
		f.invoices.invoices = append(f.invoices.invoices, invoice(i, 1, 7, "1.10", models.InvoiceStatusPending))
	}

	school, err := f.svc.Debt(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "275.00", school.TotalDebt.StringFixed(2))
	assert.Equal(t, 3, f.invoices.calls)
}

func TestSchoolServiceDebtAbortsOnPartialFailure(t *testing.T) {
	f := newSchoolFixture(QueryConfig{BatchSize: 10})
	for i := int64(1); i <= 25; i++ {
		f.invoices.invoices = append(f.invoices.invoices, invoice(i, 1, 7, "5.00", models.InvoiceStatusPending))
	}
	f.invoices.failOn = 2
	f.invoices.failErr = errors.New("connection reset")

	school, err := f.svc.Debt(context.Background(), 1)
	require.Error(t, err)
	assert.Nil(t, school)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestSchoolServiceDebtUnknownSchool(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})
	_, err := f.svc.Debt(context.Background(), 404)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Zero(t, f.invoices.calls)
}

func TestSchoolServiceCreateAndDelete(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})

	_, err := f.svc.Create(context.Background(), CreateSchoolRequest{Name: "No ref"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	school, err := f.svc.Create(context.Background(), CreateSchoolRequest{Ref: "SCH2", Name: "Shelbyville"})
	require.NoError(t, err)
	assert.NotZero(t, school.ID)

	require.NoError(t, f.svc.Delete(context.Background(), school.ID))
	err = f.svc.Delete(context.Background(), school.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSchoolServiceEnroll(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})

	membership, err := f.svc.Enroll(context.Background(), 1, EnrollStudentRequest{StudentID: 7})
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusActive, membership.Status)
	assert.Len(t, f.memberships.rows, 1)

	_, err = f.svc.Enroll(context.Background(), 1, EnrollStudentRequest{StudentID: 8})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = f.svc.Enroll(context.Background(), 1, EnrollStudentRequest{StudentID: 7, Status: "SUSPENDED"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSchoolServiceSetMembershipStatus(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})
	_, err := f.svc.Enroll(context.Background(), 1, EnrollStudentRequest{StudentID: 7})
	require.NoError(t, err)

	require.NoError(t, f.svc.SetMembershipStatus(context.Background(), 1, 7, UpdateMembershipRequest{Status: models.MembershipStatusDeactivated}))
	assert.Equal(t, models.MembershipStatusDeactivated, f.memberships.rows[0].Status)

	err = f.svc.SetMembershipStatus(context.Background(), 2, 7, UpdateMembershipRequest{Status: models.MembershipStatusActive})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSchoolServiceUnenrollRemovesLatestRow(t *testing.T) {
	f := newSchoolFixture(QueryConfig{})
	f.memberships.rows = []models.Membership{
		{ID: 1, SchoolID: 1, StudentID: 7, Status: models.MembershipStatusDeactivated},
		{ID: 2, SchoolID: 2, StudentID: 7, Status: models.MembershipStatusDeactivated},
		{ID: 3, SchoolID: 1, StudentID: 7, Status: models.MembershipStatusActive},
	}

	require.NoError(t, f.svc.Unenroll(context.Background(), 1, 7))
	require.Len(t, f.memberships.rows, 2)
	assert.Equal(t, int64(1), f.memberships.rows[0].ID)
	assert.Equal(t, int64(2), f.memberships.rows[1].ID)

	err := f.svc.Unenroll(context.Background(), 3, 7)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Len(t, f.memberships.rows, 2)
}

func TestSchoolServiceListAppliesStrictConfig(t *testing.T) {
	f := newSchoolFixture(QueryConfig{StrictFilters: true})
	schools, pagination, err := f.svc.List(context.Background(), models.SchoolFilter{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, schools, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 5, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.True(t, f.schools.lastFilter.StrictAttributes)
}
