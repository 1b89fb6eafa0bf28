package commands_test

import (
	"context"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockEntityRepository struct{ mock.Mock }

func (m *MockEntityRepository) DataSource() kernel.DataSource {
	args := m.Called()
	return args.Get(0).(kernel.DataSource)
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

type MockRepositoryProvider struct{ mock.Mock }

func (m *MockRepositoryProvider) Repository(ds kernel.DataSource) (ports.EntityRepository, error) {
	args := m.Called(ds)
	repo, _ := args.Get(0).(ports.EntityRepository)
	return repo, args.Error(1)
}
