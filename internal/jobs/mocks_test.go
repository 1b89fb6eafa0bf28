package jobs_test

import (
	"context"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockCommandExecutor struct{ mock.Mock }

func (m *MockCommandExecutor) Execute(
	ctx context.Context,
	uow ports.UnitOfWork,
	cmds ...commands.Command,
) ([]commands.CommandResult, error) {
	args := m.Called(ctx, uow, cmds)
	results, _ := args.Get(0).([]commands.CommandResult)
	return results, args.Error(1)
}

type MockUnitOfWorkFactory struct{ mock.Mock }

func (m *MockUnitOfWorkFactory) Create() ports.UnitOfWork {
	return m.Called().Get(0).(ports.UnitOfWork)
}

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

type MockJob struct{ mock.Mock }

func (m *MockJob) Name() string {
	return m.Called().String(0)
}

func (m *MockJob) Start() error {
	return m.Called().Error(0)
}

func (m *MockJob) Stop() {
	m.Called()
}
