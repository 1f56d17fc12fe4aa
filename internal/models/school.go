package models

import "time"

// School represents an institution that bills students.
type School struct {
	ID        int64     `db:"id" json:"id"`
	Ref       string    `db:"ref" json:"ref"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Students  []Student `db:"-" json:"students,omitempty"`
	TotalDebt *Money    `db:"-" json:"total_debt,omitempty"`
}

// SchoolFilter provides filters for listing schools.
type SchoolFilter struct {
	Attributes       map[string]string
	StrictAttributes bool
	Offset           int
	Limit            int
}
