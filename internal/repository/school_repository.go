package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-billing-api/internal/models"
)

const schoolColumns = "sc.id, sc.ref, sc.name, sc.created_at"

// SchoolRepository manages persistence for schools.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// List returns a page of schools ordered by id together with the filtered total.
func (r *SchoolRepository) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error) {
	w := &whereBuilder{}
	if err := schoolAttributes.apply(w, filter.Attributes, filter.StrictAttributes); err != nil {
		return nil, 0, err
	}

	base := "FROM schools sc" + w.clause()
	offset, limit := NormalizePage(filter.Offset, filter.Limit)
	query := fmt.Sprintf("SELECT %s %s ORDER BY sc.id ASC LIMIT %d OFFSET %d", schoolColumns, base, limit, offset)

	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, r.db.Rebind(query), w.args...); err != nil {
		return nil, 0, fmt.Errorf("list schools: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) "+base), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count schools: %w", err)
	}
	return schools, total, nil
}

// FindByID fetches a school by ID. It returns sql.ErrNoRows when absent.
func (r *SchoolRepository) FindByID(ctx context.Context, id int64) (*models.School, error) {
	query := "SELECT " + schoolColumns + " FROM schools sc WHERE sc.id = ?"
	var school models.School
	if err := r.db.GetContext(ctx, &school, r.db.Rebind(query), id); err != nil {
		return nil, err
	}
	return &school, nil
}

// Create inserts a school and fills in the generated ID.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	if school.CreatedAt.IsZero() {
		school.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schools (ref, name, created_at) VALUES (?, ?, ?) RETURNING id`
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), school.Ref, school.Name, school.CreatedAt).Scan(&school.ID)
	return translateError(err, "create school")
}

// Delete hard-deletes a school. It reports false when no row matched.
func (r *SchoolRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return deleteByID(ctx, r.db, "schools", id)
}
