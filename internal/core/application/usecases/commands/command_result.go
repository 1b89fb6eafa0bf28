package commands

import (
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

// Status tells whether a command succeeded.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failure"
}

// ReadResult is the payload of a successful ReadCommand. TotalCount is nil unless
// the command asked for it.
type ReadResult struct {
	Records    []kernel.Entity
	TotalCount *int64
}

// SaveResult is the payload of a successful SaveCommand.
type SaveResult struct {
	Inserted    int
	Updated     int
	Deleted     int
	InsertedIDs []kernel.UUID
}

// CommandResult is the outcome of one command. Exactly one of Read, Save and Err
// is set, matching the command type and Status.
type CommandResult struct {
	Status     Status
	Type       CommandType
	DataSource kernel.DataSource
	Read       *ReadResult
	Save       *SaveResult
	Err        *errs.CommandError
}

func NewReadSuccess(ds kernel.DataSource, read ReadResult) CommandResult {
	return CommandResult{Status: StatusSuccess, Type: TypeRead, DataSource: ds, Read: &read}
}

func NewSaveSuccess(ds kernel.DataSource, save SaveResult) CommandResult {
	return CommandResult{Status: StatusSuccess, Type: TypeSave, DataSource: ds, Save: &save}
}

// NewFailure builds the result of a failed command; err is attributed to ds.
func NewFailure(cmdType CommandType, ds kernel.DataSource, err *errs.CommandError) CommandResult {
	if err.DataSource == "" {
		err = err.WithDataSource(ds.String())
	}
	return CommandResult{Status: StatusFailure, Type: cmdType, DataSource: ds, Err: err}
}

func (r CommandResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
