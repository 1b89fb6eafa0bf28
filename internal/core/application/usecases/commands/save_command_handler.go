package commands

import (
	"context"
	"errors"
	"fmt"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

// SaveCommandHandler executes a SaveCommand: every entity is validated first,
// then deletes, updates and inserts are written in that order. Writes stay
// pending in the unit of work until it commits.
type SaveCommandHandler struct{}

func NewSaveCommandHandler() SaveCommandHandler {
	return SaveCommandHandler{}
}

func (h SaveCommandHandler) Handle(ctx context.Context, repos RepositoryProvider, cmd SaveCommand) (SaveResult, error) {
	if err := cmd.Validate(); err != nil {
		return SaveResult{}, errs.NewCommandErrorWithCause(errs.KindValidationFailed, err.Error(), err)
	}

	toDelete, toUpdate, toInsert := cmd.ToDelete(), cmd.ToUpdate(), cmd.ToInsert()
	if err := errors.Join(
		validateEntities("to delete", toDelete),
		validateEntities("to update", toUpdate),
		validateEntities("to insert", toInsert),
	); err != nil {
		return SaveResult{}, errs.NewCommandErrorWithCause(errs.KindValidationFailed, err.Error(), err)
	}

	repo, err := repos.Repository(cmd.DataSource())
	if err != nil {
		return SaveResult{}, err
	}

	if len(toDelete) > 0 {
		if err := repo.Delete(ctx, toDelete); err != nil {
			return SaveResult{}, err
		}
	}
	if len(toUpdate) > 0 {
		if err := repo.Update(ctx, toUpdate); err != nil {
			return SaveResult{}, err
		}
	}
	if len(toInsert) > 0 {
		if err := repo.Insert(ctx, toInsert); err != nil {
			return SaveResult{}, err
		}
	}

	ids := make([]kernel.UUID, 0, len(toInsert))
	for _, e := range toInsert {
		ids = append(ids, e.ID())
	}

	return SaveResult{
		Inserted:    len(toInsert),
		Updated:     len(toUpdate),
		Deleted:     len(toDelete),
		InsertedIDs: ids,
	}, nil
}

func validateEntities(paramName string, entities []kernel.Entity) error {
	var err error
	for i, e := range entities {
		if vErr := e.Validate(); vErr != nil {
			err = errors.Join(err, fmt.Errorf("entity %d %s: %w", i, paramName, vErr))
		}
	}
	return err
}
