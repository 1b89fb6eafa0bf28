package entityquery

import (
	"errors"
	"fmt"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"gorm.io/gorm"
)

// TranslateError maps a gorm error to a command error of ds. It relies on the
// connection being opened with gorm.Config{TranslateError: true}, which turns
// driver constraint violations into gorm sentinels.
func TranslateError(ds kernel.DataSource, err error) error {
	if err == nil {
		return nil
	}

	var cmdErr *errs.CommandError
	if errors.As(err, &cmdErr) {
		return err
	}

	var kind errs.Kind
	var message string
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		kind, message = errs.KindConflict, "a record with the same unique key already exists"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		kind, message = errs.KindConflict, "the record references or is referenced by another record"
	case errors.Is(err, gorm.ErrRecordNotFound):
		kind, message = errs.KindNotFound, "record not found"
	default:
		kind, message = errs.KindInfrastructure, "database operation failed"
	}
	return errs.NewCommandErrorWithCause(kind, message, err).WithDataSource(ds.String())
}

// ForeignEntityError reports an entity handed to a repository of another data source.
func ForeignEntityError(ds kernel.DataSource, entity kernel.Entity) error {
	return errs.NewCommandError(errs.KindValidationFailed,
		fmt.Sprintf("entity %T does not belong to %s", entity, ds)).WithDataSource(ds.String())
}

// NotFoundError reports that an update or delete matched no record.
func NotFoundError(ds kernel.DataSource, id kernel.UUID) error {
	cause := errs.NewObjectNotFoundError(ds.String(), id.String())
	return errs.NewCommandErrorWithCause(errs.KindNotFound,
		fmt.Sprintf("record %s does not exist", id), cause).WithDataSource(ds.String())
}
