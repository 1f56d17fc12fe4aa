package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-billing-api/internal/models"
)

func TestSchoolRepositoryListFiltersByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT sc.id, sc.ref, sc.name, sc.created_at FROM schools sc WHERE sc.name = ? ORDER BY sc.id ASC LIMIT 10 OFFSET 0")).
		WithArgs("Springfield").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ref", "name", "created_at"}).AddRow(3, "SCH1", "Springfield", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schools sc WHERE sc.name = ?")).
		WithArgs("Springfield").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	schools, total, err := repo.List(context.Background(), models.SchoolFilter{Attributes: map[string]string{"name": "Springfield"}})
	require.NoError(t, err)
	require.Len(t, schools, 1)
	assert.Equal(t, "SCH1", schools[0].Ref)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepositorySetStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMembershipRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE school_students SET status = ?")).
		WithArgs(models.MembershipStatusDeactivated, int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.SetStatus(context.Background(), 3, 7, models.MembershipStatusDeactivated)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}
