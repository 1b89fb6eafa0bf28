package processing_test

import (
	"context"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockUnitOfWork struct{ mock.Mock }

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) CommitAndClose(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Savepoint(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockUnitOfWork) RollbackTo(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockUnitOfWork) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) State() ports.UnitOfWorkState {
	return m.Called().Get(0).(ports.UnitOfWorkState)
}

func (m *MockUnitOfWork) Acquire() (func(), error) {
	args := m.Called()
	release, _ := args.Get(0).(func())
	return release, args.Error(1)
}

func (m *MockUnitOfWork) Repository(ds kernel.DataSource) (ports.EntityRepository, error) {
	args := m.Called(ds)
	repo, _ := args.Get(0).(ports.EntityRepository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) DataSources() []kernel.DataSource {
	return m.Called().Get(0).([]kernel.DataSource)
}

type MockEntityRepository struct{ mock.Mock }

func (m *MockEntityRepository) DataSource() kernel.DataSource {
	return m.Called().Get(0).(kernel.DataSource)
}

func (m *MockEntityRepository) Read(ctx context.Context, params ports.ReadParameters) ([]kernel.Entity, error) {
	args := m.Called(ctx, params)
	records, _ := args.Get(0).([]kernel.Entity)
	return records, args.Error(1)
}

func (m *MockEntityRepository) Count(ctx context.Context, filters []ports.Filter) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntityRepository) Insert(ctx context.Context, entities []kernel.Entity) error {
	return m.Called(ctx, entities).Error(0)
}

func (m *MockEntityRepository) Update(ctx context.Context, entities []kernel.Entity) error {
	return m.Called(ctx, entities).Error(0)
}

func (m *MockEntityRepository) Delete(ctx context.Context, entities []kernel.Entity) error {
	return m.Called(ctx, entities).Error(0)
}
