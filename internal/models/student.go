package models

import "time"

// Student represents a learner registered in the system.
type Student struct {
	ID        int64     `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Age       int       `db:"age" json:"age"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Derived per request, never persisted.
	TotalPaid *Money `db:"-" json:"total_paid,omitempty"`
	TotalDebt *Money `db:"-" json:"total_debt,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	// Attributes are exact-match filters keyed by public attribute name.
	Attributes map[string]string
	// SchoolID and Status restrict results to students holding a matching
	// membership row.
	SchoolID *int64
	Status   MembershipStatus
	// StrictAttributes rejects unknown attribute names instead of ignoring them.
	StrictAttributes bool
	Offset           int
	Limit            int
}
