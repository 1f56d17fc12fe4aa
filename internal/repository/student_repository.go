package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-billing-api/internal/models"
)

const studentColumns = "s.id, s.first_name, s.last_name, s.email, s.age, s.created_at"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns a page of students matching the filter, ordered by id, and the
// number of students matching the same predicate before pagination.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	w := &whereBuilder{}
	if filter.SchoolID != nil || filter.Status != "" {
		// EXISTS instead of a plain join so a student with several matching
		// history rows is listed once.
		sub := "SELECT 1 FROM school_students ss WHERE ss.student_id = s.id"
		var subArgs []interface{}
		if filter.SchoolID != nil {
			sub += " AND ss.school_id = ?"
			subArgs = append(subArgs, *filter.SchoolID)
		}
		if filter.Status != "" {
			sub += " AND ss.status = ?"
			subArgs = append(subArgs, filter.Status)
		}
		w.add("EXISTS ("+sub+")", subArgs...)
	}
	if err := studentAttributes.apply(w, filter.Attributes, filter.StrictAttributes); err != nil {
		return nil, 0, err
	}

	base := "FROM students s" + w.clause()
	offset, limit := NormalizePage(filter.Offset, filter.Limit)
	query := fmt.Sprintf("SELECT %s %s ORDER BY s.id ASC LIMIT %d OFFSET %d", studentColumns, base, limit, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, r.db.Rebind(query), w.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) "+base), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID. It returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students s WHERE s.id = ?"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, r.db.Rebind(query), id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student and fills in the generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO students (first_name, last_name, email, age, created_at)
        VALUES (?, ?, ?, ?, ?) RETURNING id`
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		student.FirstName, student.LastName, student.Email, student.Age, student.CreatedAt,
	).Scan(&student.ID)
	return translateError(err, "create student")
}

// Delete hard-deletes a student. It reports false when no row matched.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return deleteByID(ctx, r.db, "students", id)
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id int64) (bool, error) {
	res, err := db.ExecContext(ctx, db.Rebind("DELETE FROM "+table+" WHERE id = ?"), id)
	if err != nil {
		return false, translateError(err, "delete from "+table)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	return affected > 0, nil
}
