package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	appErrors "github.com/noah-isme/school-billing-api/pkg/errors"
)

// Postgres SQLSTATE codes for integrity violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
	constraintRange
)

func classifyConstraint(err error) constraintKind {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return constraintUnique
		case pgForeignKeyViolation:
			return constraintForeignKey
		case pgCheckViolation:
			return constraintCheck
		case pgNumericOutOfRange:
			return constraintRange
		}
		return constraintNone
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraintUnique
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraintForeignKey
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return constraintCheck
		}
		if code&0xff == sqlite3.SQLITE_CONSTRAINT {
			return constraintCheck
		}
	}
	return constraintNone
}

// translateError turns integrity violations into typed constraint errors,
// column overflows into validation errors and wraps everything else with the
// operation name.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	var message string
	switch classifyConstraint(err) {
	case constraintUnique:
		message = op + ": value already exists"
	case constraintForeignKey:
		message = op + ": referenced record is missing or still referenced"
	case constraintCheck:
		message = op + ": value out of allowed range"
	case constraintRange:
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, op+": numeric value exceeds column precision")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
	return appErrors.Wrap(err, appErrors.ErrConstraintViolation.Code, appErrors.ErrConstraintViolation.Status, message)
}
