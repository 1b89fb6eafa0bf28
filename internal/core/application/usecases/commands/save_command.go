package commands

import (
	"errors"
	"fmt"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var (
	ErrSaveCommandIsNotConstructed = errors.New("SaveCommand must be created via NewSaveCommand constructor")
	ErrSaveCommandIsEmpty          = errs.NewValueIsRequiredError("entities to insert, update or delete")
)

// SaveCommand inserts, updates and deletes entities of one data source. Inside a
// single command the deletes run first, then the updates, then the inserts.
//
// Example:
//
//	book, _ := bookstore.NewBook("NewBook")
//	cmd, err := commands.NewSaveCommand(bookstore.BookDataSource, commands.Insert(book))
//	if err != nil {
//	    return err
//	}
//	if _, err := engine.Execute(ctx, uow, cmd); err != nil {
//	    return err
//	}
//	return uow.CommitAndClose(ctx)
type SaveCommand struct { //nolint:recvcheck //using for validation
	dataSource kernel.DataSource
	toInsert   []kernel.Entity
	toUpdate   []kernel.Entity
	toDelete   []kernel.Entity

	guard guard.ConstructorGuard
}

// SaveOption adds entities to a SaveCommand. The command keeps copies of the
// entities, so changing them afterwards does not change the command.
type SaveOption func(*SaveCommand) error

func Insert(entities ...kernel.Entity) SaveOption {
	return func(c *SaveCommand) error {
		if err := noNilEntities("to insert", entities); err != nil {
			return err
		}
		c.toInsert = append(c.toInsert, cloneEntities(entities)...)
		return nil
	}
}

func Update(entities ...kernel.Entity) SaveOption {
	return func(c *SaveCommand) error {
		if err := noNilEntities("to update", entities); err != nil {
			return err
		}
		c.toUpdate = append(c.toUpdate, cloneEntities(entities)...)
		return nil
	}
}

func Delete(entities ...kernel.Entity) SaveOption {
	return func(c *SaveCommand) error {
		if err := noNilEntities("to delete", entities); err != nil {
			return err
		}
		c.toDelete = append(c.toDelete, cloneEntities(entities)...)
		return nil
	}
}

// NewSaveCommand creates a save against ds. At least one entity must be given.
func NewSaveCommand(ds kernel.DataSource, opts ...SaveOption) (SaveCommand, error) {
	cmd := SaveCommand{
		guard: guard.NewConstructorGuard(),
	}

	err := cmd.setDataSource(ds)
	for _, opt := range opts {
		err = errors.Join(err, opt(&cmd))
	}
	if err == nil && len(cmd.toInsert)+len(cmd.toUpdate)+len(cmd.toDelete) == 0 {
		err = ErrSaveCommandIsEmpty
	}
	if err != nil {
		return SaveCommand{}, err
	}

	return cmd, nil
}

func (c SaveCommand) Validate() error {
	return c.guard.Validate(ErrSaveCommandIsNotConstructed)
}

func (c SaveCommand) Type() CommandType {
	return TypeSave
}

func (c SaveCommand) DataSource() kernel.DataSource {
	return c.dataSource
}

func (c SaveCommand) ToInsert() []kernel.Entity {
	return cloneEntities(c.toInsert)
}

func (c SaveCommand) ToUpdate() []kernel.Entity {
	return cloneEntities(c.toUpdate)
}

func (c SaveCommand) ToDelete() []kernel.Entity {
	return cloneEntities(c.toDelete)
}

func (c SaveCommand) isCommand() {}

func (c *SaveCommand) setDataSource(ds kernel.DataSource) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	c.dataSource = ds
	return nil
}

func noNilEntities(paramName string, entities []kernel.Entity) error {
	for i, e := range entities {
		if e == nil {
			return errs.NewValueIsRequiredError(fmt.Sprintf("entity %d %s", i, paramName))
		}
	}
	return nil
}

func cloneEntities(entities []kernel.Entity) []kernel.Entity {
	if entities == nil {
		return nil
	}
	out := make([]kernel.Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}
