package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-billing-api/internal/models"
)

const membershipColumns = "id, school_id, student_id, date_joined, status"

// MembershipRepository handles the school_students history table.
type MembershipRepository struct {
	db *sqlx.DB
}

// NewMembershipRepository constructs the repository.
func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create appends a membership row. Single active membership is not enforced.
func (r *MembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = time.Now().UTC()
	}
	const query = `INSERT INTO school_students (school_id, student_id, date_joined, status) VALUES (?, ?, ?, ?) RETURNING id`
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		membership.SchoolID, membership.StudentID, membership.JoinedAt, membership.Status,
	).Scan(&membership.ID)
	return translateError(err, "create membership")
}

// ListByStudent returns the student's history, most recent join first.
func (r *MembershipRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Membership, error) {
	query := "SELECT " + membershipColumns + " FROM school_students WHERE student_id = ? ORDER BY date_joined DESC, id DESC"
	var memberships []models.Membership
	if err := r.db.SelectContext(ctx, &memberships, r.db.Rebind(query), studentID); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return memberships, nil
}

// Current returns the latest joined ACTIVE membership of a student, or
// sql.ErrNoRows when the student is not active anywhere.
func (r *MembershipRepository) Current(ctx context.Context, studentID int64) (*models.Membership, error) {
	query := "SELECT " + membershipColumns + " FROM school_students WHERE student_id = ? AND status = ? ORDER BY date_joined DESC, id DESC LIMIT 1"
	var membership models.Membership
	if err := r.db.GetContext(ctx, &membership, r.db.Rebind(query), studentID, models.MembershipStatusActive); err != nil {
		return nil, err
	}
	return &membership, nil
}

// SetStatus changes the status of the most recent membership row between a
// school and a student. It reports false when they share no row.
func (r *MembershipRepository) SetStatus(ctx context.Context, schoolID, studentID int64, status models.MembershipStatus) (bool, error) {
	const query = `UPDATE school_students SET status = ? WHERE id = (
        SELECT id FROM school_students WHERE school_id = ? AND student_id = ? ORDER BY date_joined DESC, id DESC LIMIT 1)`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), status, schoolID, studentID)
	if err != nil {
		return false, translateError(err, "update membership")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update membership: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a membership row.
func (r *MembershipRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return deleteByID(ctx, r.db, "school_students", id)
}
