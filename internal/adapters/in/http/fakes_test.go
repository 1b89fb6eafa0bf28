package http_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
)

// memStore keeps committed records per data source. Units of work copy it on
// Begin and write their copy back on Commit.
type memStore struct {
	mu         sync.Mutex
	committed  map[string][]kernel.Entity
	lastParams ports.ReadParameters
	created    int
}

func newMemStore() *memStore {
	return &memStore{committed: map[string][]kernel.Entity{}}
}

func (s *memStore) Create() ports.UnitOfWork {
	s.mu.Lock()
	s.created++
	s.mu.Unlock()
	return &memUnitOfWork{store: s, state: ports.Open}
}

func (s *memStore) records(ds kernel.DataSource) []kernel.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.committed[ds.String()])
}

func (s *memStore) seed(ds kernel.DataSource, entities ...kernel.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed[ds.String()] = append(s.committed[ds.String()], entities...)
}

func (s *memStore) params() ports.ReadParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastParams
}

type memUnitOfWork struct {
	store *memStore
	inUse atomic.Bool

	mu         sync.Mutex
	state      ports.UnitOfWorkState
	work       map[string][]kernel.Entity
	savepoints map[string]map[string][]kernel.Entity
}

func (u *memUnitOfWork) Begin(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state.IsTerminal() {
		return errs.NewCommandError(errs.KindInvalidState, "unit of work is "+u.state.String())
	}
	if u.work != nil {
		return nil
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.work = cloneWork(u.store.committed)
	u.savepoints = map[string]map[string][]kernel.Entity{}
	return nil
}

func (u *memUnitOfWork) Savepoint(_ context.Context, name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.work == nil {
		return errs.NewCommandError(errs.KindInvalidState, "unit of work has not begun")
	}
	u.savepoints[name] = cloneWork(u.work)
	return nil
}

func (u *memUnitOfWork) RollbackTo(_ context.Context, name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	snapshot, ok := u.savepoints[name]
	if u.work == nil || !ok {
		return errs.NewCommandError(errs.KindInvalidState, "no savepoint "+name)
	}
	u.work = cloneWork(snapshot)
	return nil
}

func cloneWork(work map[string][]kernel.Entity) map[string][]kernel.Entity {
	out := make(map[string][]kernel.Entity, len(work))
	for k, v := range work {
		out[k] = slices.Clone(v)
	}
	return out
}

func (u *memUnitOfWork) finish(target ports.UnitOfWorkState) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state.IsTerminal() {
		return errs.NewCommandError(errs.KindAlreadyTerminal, "unit of work is "+u.state.String())
	}
	if target == ports.Committed && u.work != nil {
		u.store.mu.Lock()
		u.store.committed = u.work
		u.store.mu.Unlock()
	}
	u.work = nil
	u.savepoints = nil
	u.state = target
	return nil
}

func (u *memUnitOfWork) Commit(context.Context) error         { return u.finish(ports.Committed) }
func (u *memUnitOfWork) CommitAndClose(context.Context) error { return u.finish(ports.Committed) }
func (u *memUnitOfWork) Rollback(context.Context) error       { return u.finish(ports.RolledBack) }

func (u *memUnitOfWork) Close(context.Context) error {
	if u.State() != ports.Open {
		return nil
	}
	return u.finish(ports.RolledBack)
}

func (u *memUnitOfWork) State() ports.UnitOfWorkState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *memUnitOfWork) Acquire() (func(), error) {
	if !u.inUse.CompareAndSwap(false, true) {
		return nil, errs.NewCommandError(errs.KindInvalidState, "unit of work is already in use")
	}
	return sync.OnceFunc(func() { u.inUse.Store(false) }), nil
}

func (u *memUnitOfWork) Repository(ds kernel.DataSource) (ports.EntityRepository, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.work == nil {
		return nil, errs.NewCommandError(errs.KindInvalidState, "unit of work has not begun")
	}
	return &memRepository{uow: u, ds: ds}, nil
}

func (u *memUnitOfWork) DataSources() []kernel.DataSource {
	return nil
}

// memRepository supports equality filters on ID only; it records the read
// parameters it receives.
type memRepository struct {
	uow *memUnitOfWork
	ds  kernel.DataSource
}

func (r *memRepository) DataSource() kernel.DataSource {
	return r.ds
}

func (r *memRepository) Read(_ context.Context, params ports.ReadParameters) ([]kernel.Entity, error) {
	r.uow.store.mu.Lock()
	r.uow.store.lastParams = params
	r.uow.store.mu.Unlock()

	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	return filterByID(r.uow.work[r.ds.String()], params.Filters), nil
}

func (r *memRepository) Count(_ context.Context, filters []ports.Filter) (int64, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	return int64(len(filterByID(r.uow.work[r.ds.String()], filters))), nil
}

func (r *memRepository) Insert(_ context.Context, entities []kernel.Entity) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	key := r.ds.String()
	for _, e := range entities {
		if indexOf(r.uow.work[key], e.ID()) >= 0 {
			return errs.NewCommandError(errs.KindConflict, fmt.Sprintf("%s already exists", e.ID()))
		}
		r.uow.work[key] = append(r.uow.work[key], e)
	}
	return nil
}

func (r *memRepository) Update(_ context.Context, entities []kernel.Entity) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	key := r.ds.String()
	for _, e := range entities {
		i := indexOf(r.uow.work[key], e.ID())
		if i < 0 {
			return errs.NewObjectNotFoundError(key, e.ID().String())
		}
		r.uow.work[key][i] = e
	}
	return nil
}

func (r *memRepository) Delete(_ context.Context, entities []kernel.Entity) error {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	key := r.ds.String()
	for _, e := range entities {
		i := indexOf(r.uow.work[key], e.ID())
		if i < 0 {
			return errs.NewObjectNotFoundError(key, e.ID().String())
		}
		r.uow.work[key] = slices.Delete(r.uow.work[key], i, i+1)
	}
	return nil
}

func filterByID(entities []kernel.Entity, filters []ports.Filter) []kernel.Entity {
	out := slices.Clone(entities)
	for _, f := range filters {
		if f.Property != "ID" || f.Operation != ports.OpEqual {
			continue
		}
		out = slices.DeleteFunc(out, func(e kernel.Entity) bool {
			return e.ID().String() != fmt.Sprint(f.Value)
		})
	}
	return out
}

func indexOf(entities []kernel.Entity, id kernel.UUID) int {
	return slices.IndexFunc(entities, func(e kernel.Entity) bool { return e.ID().IsEqual(id) })
}

type fakeDashboard struct {
	rows []queries.GetDataSourcesQueryResponse
	err  error
}

func (f fakeDashboard) Handle(context.Context, queries.GetDataSourcesQuery) ([]queries.GetDataSourcesQueryResponse, error) {
	return f.rows, f.err
}
