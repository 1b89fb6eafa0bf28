package ports

import (
	"context"

	"bookstore/internal/core/domain/model/kernel"
)

// UnitOfWorkState is the lifecycle state of a UnitOfWork.
type UnitOfWorkState int

const (
	// Open accepts command executions.
	Open UnitOfWorkState = iota
	// Committed is terminal: all effects are durable and visible.
	Committed
	// RolledBack is terminal: all pending effects are discarded.
	RolledBack
)

func (s UnitOfWorkState) String() string {
	switch s {
	case Open:
		return "open"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition can happen from s.
func (s UnitOfWorkState) IsTerminal() bool {
	return s == Committed || s == RolledBack
}

// UnitOfWorkFactory creates a new UnitOfWork for each request scope.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork bounds the command executions of one request scope; they commit or
// roll back together.
//
// Lifecycle: Open → Committed | RolledBack. At most one terminal transition ever
// happens; a second Commit, Rollback or CommitAndClose fails with an
// errs.KindAlreadyTerminal error. Close is the scope-end hook: it rolls back a
// unit of work that is still open and does nothing otherwise, so effects never
// leak unless they were committed explicitly.
//
// A UnitOfWork belongs to one request and must not be used from two goroutines
// at once; Acquire enforces this by rejecting a second concurrent holder.
type UnitOfWork interface {
	// Begin starts the underlying transaction. Calling it again while open is a no-op.
	Begin(ctx context.Context) error

	// Commit makes all pending effects durable and visible.
	Commit(ctx context.Context) error

	// CommitAndClose commits and releases held resources right away instead of
	// waiting for the end of the scope.
	CommitAndClose(ctx context.Context) error

	// Rollback discards all pending effects.
	Rollback(ctx context.Context) error

	// Savepoint marks the current point of the running transaction under name.
	// It fails with errs.KindInvalidState before Begin or once terminal.
	Savepoint(ctx context.Context, name string) error

	// RollbackTo discards the effects made after the savepoint name while
	// keeping the earlier ones pending. The unit of work stays open.
	RollbackTo(ctx context.Context, name string) error

	// Close rolls back if still open and releases resources. Safe to call in any state.
	Close(ctx context.Context) error

	// State returns the current lifecycle state.
	State() UnitOfWorkState

	// Acquire grants exclusive use of the unit of work until release is called.
	// It fails with errs.KindInvalidState while another holder is active.
	Acquire() (release func(), err error)

	// Repository returns the repository of ds bound to this unit of work.
	// An unknown data source is an errs.KindNotFound error.
	Repository(ds kernel.DataSource) (EntityRepository, error)

	// DataSources lists the data sources this unit of work can reach.
	DataSources() []kernel.DataSource
}
