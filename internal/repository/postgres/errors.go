package postgres

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"
const foreignKeyViolation = "23503"

// wrapError classifies a driver error for the given entity
func wrapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHintf("%s not found", entity).
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return ierr.WithError(err).
				WithHintf("%s already exists", entity).
				WithReportableDetails(map[string]any{
					"constraint": pqErr.Constraint,
				}).
				Mark(ierr.ErrAlreadyExists)
		case foreignKeyViolation:
			return ierr.WithError(err).
				WithHintf("%s references a record that does not exist or is still referenced", entity).
				WithReportableDetails(map[string]any{
					"constraint": pqErr.Constraint,
				}).
				Mark(ierr.ErrInvalidOperation)
		}
	}

	return ierr.WithError(err).
		WithHintf("Failed to access %s", entity).
		Mark(ierr.ErrDatabase)
}

// expectAffected turns a zero-row update or delete into not found
func expectAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return wrapError(err, entity, id)
	}
	if n == 0 {
		return wrapError(sql.ErrNoRows, entity, id)
	}
	return nil
}
