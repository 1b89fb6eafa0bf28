package commands

import (
	"context"

	"bookstore/internal/pkg/errs"
)

// ReadCommandHandler executes a ReadCommand against the repository of its data
// source.
//
// Example:
//
//	handler := commands.NewReadCommandHandler()
//	result, err := handler.Handle(ctx, uow, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d books.", len(result.Records))
type ReadCommandHandler struct{}

func NewReadCommandHandler() ReadCommandHandler {
	return ReadCommandHandler{}
}

// Handle reads the records and, when requested, the total count. Both come from
// the same unit of work so they see the same pending changes.
func (h ReadCommandHandler) Handle(ctx context.Context, repos RepositoryProvider, cmd ReadCommand) (ReadResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReadResult{}, errs.NewCommandErrorWithCause(errs.KindValidationFailed, err.Error(), err)
	}

	repo, err := repos.Repository(cmd.DataSource())
	if err != nil {
		return ReadResult{}, err
	}

	var result ReadResult
	if cmd.ReadRecords() {
		records, err := repo.Read(ctx, cmd.Parameters())
		if err != nil {
			return ReadResult{}, err
		}
		result.Records = records
	}

	if cmd.IncludeTotalCount() {
		count, err := repo.Count(ctx, cmd.Filters())
		if err != nil {
			return ReadResult{}, err
		}
		result.TotalCount = &count
	}

	return result, nil
}
