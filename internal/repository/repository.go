// Package repository wraps storage access per entity. Every query on a
// tenant-owned entity carries an organization_id equality predicate; there
// is no path here that reads or writes another tenant's rows. Uniqueness
// pre-checks give friendlier Conflict messages, but the database unique
// constraints remain the authoritative guard against concurrent creates.
package repository

import (
	"errors"

	"cms-service/pkg/apperror"

	"gorm.io/gorm"
)

// translateError maps gorm sentinel errors onto the API error taxonomy.
// Anything unrecognized propagates as an infrastructure error.
func translateError(err error, notFoundMsg, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(apperror.KindNotFound, notFoundMsg, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Wrap(apperror.KindConflict, conflictMsg, err)
	}
	return err
}
