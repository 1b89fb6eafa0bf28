// Package commands contains the typed descriptions of data operations and the
// handlers that execute them against a unit of work.
//
// A command never carries connection or transaction state: it names a data
// source and what to do with it. The processing engine decides which unit of
// work it runs in.
package commands

import (
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
)

// CommandType names a command variant in logs, metrics and traces.
type CommandType string

const (
	TypeRead CommandType = "read"
	TypeSave CommandType = "save"
)

// Command is one data operation against a single data source. The set of
// implementations is closed: ReadCommand and SaveCommand.
type Command interface {
	Type() CommandType
	DataSource() kernel.DataSource
	Validate() error

	isCommand()
}

// RepositoryProvider resolves the repository of a data source inside the current
// unit of work. ports.UnitOfWork satisfies it.
type RepositoryProvider interface {
	Repository(ds kernel.DataSource) (ports.EntityRepository, error)
}
