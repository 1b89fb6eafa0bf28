package queries_test

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/adapters/out/postgres/migrations"
	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/domain/model/bookstore"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetDataSourcesQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetDataSourcesQueryHandler
	query     queries.GetDataSourcesQuery
}

func (suite *GetDataSourcesQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)
	suite.Require().NoError(migrations.Up(dsn, zap.NewNop()))

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.handler = queries.NewGetDataSourcesQueryHandler(db)
	suite.query, err = queries.NewGetDataSourcesQuery([]queries.DataSourceTable{
		{DataSource: bookstore.BookDataSource, Table: "bookstore_book"},
		{DataSource: bookstore.PersonDataSource, Table: "bookstore_person"},
	})
	suite.Require().NoError(err)
}

func (suite *GetDataSourcesQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetDataSourcesQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE bookstore_book, bookstore_person").Error
	suite.Require().NoError(err)
}

func (suite *GetDataSourcesQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReportsZeroCounts() {
	result, err := suite.handler.Handle(context.Background(), suite.query)

	suite.Require().NoError(err)
	suite.Equal([]queries.GetDataSourcesQueryResponse{
		{DataSource: "Bookstore.Book", Table: "bookstore_book", RecordCount: 0},
		{DataSource: "Bookstore.Person", Table: "bookstore_person", RecordCount: 0},
	}, result)
}

func (suite *GetDataSourcesQueryHandlerTestSuite) TestHandle_CountsStoredRecords() {
	suite.Require().NoError(suite.db.Exec(`
		INSERT INTO bookstore_book (id, title, number_of_pages, price) VALUES
			(gen_random_uuid(), 'One', 1, 1),
			(gen_random_uuid(), 'Two', 2, 2),
			(gen_random_uuid(), 'Three', 3, 3)
	`).Error)

	result, err := suite.handler.Handle(context.Background(), suite.query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(int64(3), result[0].RecordCount)
	suite.Equal(int64(0), result[1].RecordCount)
}

func (suite *GetDataSourcesQueryHandlerTestSuite) TestHandle_UnknownTable_ReturnsError() {
	query, err := queries.NewGetDataSourcesQuery([]queries.DataSourceTable{
		{DataSource: bookstore.BookDataSource, Table: `bookstore_book"; DROP TABLE bookstore_book; --`},
	})
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "Bookstore.Book")

	var count int64
	suite.Require().NoError(suite.db.Raw("SELECT count(*) FROM bookstore_book").Scan(&count).Error)
	suite.Zero(count)
}

func (suite *GetDataSourcesQueryHandlerTestSuite) TestHandle_NotConstructedQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetDataSourcesQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetDataSourcesQueryIsNotConstructed)
}

func TestGetDataSourcesQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs a PostgreSQL container")
	}
	suite.Run(t, new(GetDataSourcesQueryHandlerTestSuite))
}
