// Package postgres implements the unit of work and the entity repositories on
// PostgreSQL with gorm.
//
// A GormUnitOfWork owns at most one database transaction. Repositories obtained
// from it run inside that transaction, so their writes are visible to later
// reads of the same unit of work and invisible to everyone else until Commit:
//
//	factory, err := postgres.NewGormUnitOfWorkFactory(db, postgres.BookstoreRegistry())
//	if err != nil {
//	    return err
//	}
//
//	uow := factory.Create()
//	defer uow.Close(ctx) // rolls back unless committed
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	books, err := uow.Repository(bookstore.BookDataSource)
//	if err != nil {
//	    return err
//	}
//	if err := books.Insert(ctx, []kernel.Entity{book}); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Concurrency: a unit of work belongs to one request. Acquire marks it as in
// use and a second concurrent Acquire, Commit or Rollback fails with an
// InvalidState error instead of interleaving statements on one transaction.
// Separate units of work are isolated by the database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var savepointPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// GormUnitOfWorkFactory creates one GormUnitOfWork per request scope.
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	registry *Registry
	logger   *zap.Logger
	outcomes *prometheus.CounterVec
}

type factoryConfig struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// FactoryOption configures a GormUnitOfWorkFactory.
type FactoryOption func(*factoryConfig)

func WithLogger(l *zap.Logger) FactoryOption {
	return func(c *factoryConfig) { c.logger = l }
}

// WithRegisterer sets where the unit of work outcome counter is registered.
func WithRegisterer(reg prometheus.Registerer) FactoryOption {
	return func(c *factoryConfig) { c.registerer = reg }
}

// NewGormUnitOfWorkFactory creates a factory whose units of work reach the data
// sources of registry through db.
func NewGormUnitOfWorkFactory(db *gorm.DB, registry *Registry, opts ...FactoryOption) (*GormUnitOfWorkFactory, error) {
	cfg := factoryConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	outcomes, err := newUnitOfWorkCounter(metrics.RegistererOrNew(cfg.registerer))
	if err != nil {
		return nil, fmt.Errorf("register unit of work metrics: %w", err)
	}

	return &GormUnitOfWorkFactory{
		db:       db,
		registry: registry,
		logger:   cfg.logger.With(zap.String("component", "unit_of_work")),
		outcomes: outcomes,
	}, nil
}

// Create returns a new open unit of work. No transaction is started until Begin.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:       f.db,
		registry: f.registry,
		logger:   f.logger,
		outcomes: f.outcomes,
		state:    ports.Open,
	}
}

// DataSources lists the data sources every created unit of work can reach.
func (f *GormUnitOfWorkFactory) DataSources() []kernel.DataSource {
	return f.registry.DataSources()
}

// GormUnitOfWork is a ports.UnitOfWork backed by one gorm transaction.
type GormUnitOfWork struct {
	db       *gorm.DB
	registry *Registry
	logger   *zap.Logger
	outcomes *prometheus.CounterVec

	inUse atomic.Bool

	mu    sync.Mutex
	state ports.UnitOfWorkState
	tx    *gorm.DB
}

// Begin starts the transaction. It is a no-op when the transaction already
// runs, and fails with InvalidState once the unit of work is terminal.
func (u *GormUnitOfWork) Begin(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.IsTerminal() {
		return errs.NewCommandError(errs.KindInvalidState, fmt.Sprintf("unit of work is %s", u.state))
	}
	if u.tx != nil {
		return nil
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errs.NewCommandErrorWithCause(errs.KindInfrastructure, "begin transaction", tx.Error)
	}
	u.tx = tx
	return nil
}

// Commit makes pending effects durable. A failed commit leaves the unit of work
// rolled back, since the database discards the transaction.
func (u *GormUnitOfWork) Commit(_ context.Context) error {
	return u.finish(ports.Committed, outcomeCommitted)
}

// CommitAndClose commits and drops the transaction handle right away, so the
// pooled connection returns before the request scope ends.
func (u *GormUnitOfWork) CommitAndClose(ctx context.Context) error {
	return u.Commit(ctx)
}

func (u *GormUnitOfWork) Rollback(_ context.Context) error {
	return u.finish(ports.RolledBack, outcomeRolledBack)
}

// Savepoint marks the current point of the transaction. A failed statement
// aborts the whole PostgreSQL transaction; rolling back to a savepoint taken
// before it makes the transaction usable again.
func (u *GormUnitOfWork) Savepoint(ctx context.Context, name string) error {
	return u.execSavepoint(ctx, name, "SAVEPOINT ")
}

func (u *GormUnitOfWork) RollbackTo(ctx context.Context, name string) error {
	return u.execSavepoint(ctx, name, "ROLLBACK TO SAVEPOINT ")
}

// execSavepoint runs a savepoint statement with Exec. gorm's postgres dialector
// discards the error of its own SavePoint and RollbackTo statements.
func (u *GormUnitOfWork) execSavepoint(ctx context.Context, name, statement string) error {
	if !savepointPattern.MatchString(name) {
		return errs.NewCommandError(errs.KindValidationFailed, fmt.Sprintf("invalid savepoint name %q", name))
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.IsTerminal() {
		return errs.NewCommandError(errs.KindInvalidState, fmt.Sprintf("unit of work is %s", u.state))
	}
	if u.tx == nil {
		return errs.NewCommandError(errs.KindInvalidState, "unit of work has not begun")
	}

	if err := u.tx.WithContext(ctx).Exec(statement + name).Error; err != nil {
		return errs.NewCommandErrorWithCause(errs.KindInfrastructure, strings.ToLower(statement)+name, err)
	}
	return nil
}

// Close ends the request scope: an open unit of work is rolled back, a terminal
// one is left alone.
func (u *GormUnitOfWork) Close(_ context.Context) error {
	if u.State() != ports.Open {
		return nil
	}

	u.logger.Debug("rolling back unit of work left open at scope end")
	if err := u.finish(ports.RolledBack, outcomeImplicitRollback); err != nil {
		u.logger.Error("implicit rollback failed", zap.Error(err))
		return err
	}
	return nil
}

func (u *GormUnitOfWork) State() ports.UnitOfWorkState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Acquire marks the unit of work as in use until release is called. Calling
// release more than once is safe.
func (u *GormUnitOfWork) Acquire() (func(), error) {
	if !u.inUse.CompareAndSwap(false, true) {
		return nil, errs.NewCommandError(errs.KindInvalidState, "unit of work is already in use")
	}
	return sync.OnceFunc(func() { u.inUse.Store(false) }), nil
}

// Repository returns the repository of ds bound to the running transaction.
func (u *GormUnitOfWork) Repository(ds kernel.DataSource) (ports.EntityRepository, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.IsTerminal() {
		return nil, errs.NewCommandError(errs.KindInvalidState, fmt.Sprintf("unit of work is %s", u.state))
	}
	if u.tx == nil {
		return nil, errs.NewCommandError(errs.KindInvalidState, "unit of work has not begun")
	}

	reg, ok := u.registry.Lookup(ds)
	if !ok {
		return nil, errs.NewCommandError(errs.KindNotFound,
			fmt.Sprintf("data source %s is not registered", ds)).WithDataSource(ds.String())
	}
	return reg.New(u.tx), nil
}

func (u *GormUnitOfWork) DataSources() []kernel.DataSource {
	return u.registry.DataSources()
}

func (u *GormUnitOfWork) finish(target ports.UnitOfWorkState, outcome string) error {
	release, err := u.Acquire()
	if err != nil {
		return err
	}
	defer release()

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.IsTerminal() {
		return errs.NewCommandError(errs.KindAlreadyTerminal, fmt.Sprintf("unit of work is already %s", u.state))
	}

	tx := u.tx
	u.tx = nil
	if tx == nil {
		u.state = target
		u.outcomes.WithLabelValues(outcome).Inc()
		return nil
	}

	if target == ports.Committed {
		err = tx.Commit().Error
	} else {
		err = tx.Rollback().Error
		if errors.Is(err, sql.ErrTxDone) {
			err = nil
		}
	}

	if err != nil {
		u.state = ports.RolledBack
		u.outcomes.WithLabelValues(outcomeFailed).Inc()
		return errs.NewCommandErrorWithCause(errs.KindInfrastructure,
			fmt.Sprintf("finish unit of work as %s", target), err)
	}

	u.state = target
	u.outcomes.WithLabelValues(outcome).Inc()
	return nil
}
