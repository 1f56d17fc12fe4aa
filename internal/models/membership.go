package models

import "time"

// MembershipStatus represents the state of a school enrollment row.
type MembershipStatus string

// Possible membership statuses.
const (
	MembershipStatusActive      MembershipStatus = "ACTIVE"
	MembershipStatusDeactivated MembershipStatus = "DEACTIVATED"
)

// Valid reports whether the status is one of the known values.
func (s MembershipStatus) Valid() bool {
	return s == MembershipStatusActive || s == MembershipStatusDeactivated
}

// Membership is one entry of a student's school history. A student may hold
// several rows, including more than one ACTIVE row at a time.
type Membership struct {
	ID        int64            `db:"id" json:"id"`
	SchoolID  int64            `db:"school_id" json:"school_id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	JoinedAt  time.Time        `db:"date_joined" json:"joined_at"`
	Status    MembershipStatus `db:"status" json:"status"`
}
