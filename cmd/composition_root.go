package cmd

import (
	"context"
	"fmt"

	httpin "bookstore/internal/adapters/in/http"
	"bookstore/internal/adapters/in/http/session"
	"bookstore/internal/adapters/out/postgres"
	"bookstore/internal/core/application/processing"
	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/jobs"
	"bookstore/internal/pkg/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot wires every component of the host by explicit constructor
// calls. It is built once in main.
type CompositionRoot struct {
	cfg    Config
	logger *zap.Logger
	gormDB *gorm.DB

	metrics    *prometheus.Registry
	tracer     *sdktrace.TracerProvider
	registry   *postgres.Registry
	uowFactory *postgres.GormUnitOfWorkFactory
	engine     *processing.ProcessingEngine
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tracerProvider, err := tracing.NewTracerProvider(cfg.Environment, cfg.TraceSampleRatio, logger)
	if err != nil {
		return nil, fmt.Errorf("create tracer provider: %w", err)
	}

	registry := postgres.BookstoreRegistry()

	uowFactory, err := postgres.NewGormUnitOfWorkFactory(gormDB, registry,
		postgres.WithLogger(logger),
		postgres.WithRegisterer(metrics),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("create unit of work factory: %w", err)
	}

	engine, err := processing.NewProcessingEngine(
		processing.WithLogger(logger),
		processing.WithTracerProvider(tracerProvider),
		processing.WithRegisterer(metrics),
		processing.WithDataSources(registry.DataSources()...),
		processing.WithAnonymousAccess(cfg.AllowAnonymous),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("create processing engine: %w", err)
	}

	return &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		metrics:    metrics,
		tracer:     tracerProvider,
		registry:   registry,
		uowFactory: uowFactory,
		engine:     engine,
	}, nil
}

func (c *CompositionRoot) ProcessingEngine() *processing.ProcessingEngine {
	return c.engine
}

// Shutdown flushes the spans still buffered by the tracer provider.
func (c *CompositionRoot) Shutdown(ctx context.Context) error {
	if err := c.tracer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

func (c *CompositionRoot) CreateSessionManager() (*session.Manager, error) {
	return session.NewManager([]byte(c.cfg.SessionSecret), c.cfg.SessionCookieName, c.cfg.SessionTTL,
		session.WithSecureCookie(!c.cfg.IsDevelopment()),
	)
}

func (c *CompositionRoot) CreateGetDataSourcesQueryHandler() queries.GetDataSourcesQueryHandler {
	return queries.NewGetDataSourcesQueryHandler(c.gormDB)
}

// CreateGetDataSourcesQuery lists the table of every registered data source.
func (c *CompositionRoot) CreateGetDataSourcesQuery() (queries.GetDataSourcesQuery, error) {
	regs := c.registry.Registrations()
	tables := make([]queries.DataSourceTable, 0, len(regs))
	for _, reg := range regs {
		tables = append(tables, queries.DataSourceTable{DataSource: reg.DataSource, Table: reg.Table})
	}
	return queries.NewGetDataSourcesQuery(tables)
}

func (c *CompositionRoot) CreateServer() (*httpin.Server, error) {
	sessions, err := c.CreateSessionManager()
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}

	overview, err := c.CreateGetDataSourcesQuery()
	if err != nil {
		return nil, fmt.Errorf("create dashboard query: %w", err)
	}

	return httpin.NewServer(
		httpin.Config{
			RestBaseRoute: c.cfg.RestBaseRoute,
			APIVersion:    c.cfg.APIVersion,
			Development:   c.cfg.IsDevelopment(),
		},
		c.engine,
		c.uowFactory,
		sessions,
		httpin.BookstoreCodecs(),
		c.CreateGetDataSourcesQueryHandler(),
		overview,
		httpin.WithLogger(c.logger),
		httpin.WithGatherer(c.metrics),
	)
}

func (c *CompositionRoot) CreateDataSourceStatisticsJob() (*jobs.DataSourceStatisticsJob, error) {
	return jobs.NewDataSourceStatisticsJob(c.engine, c.uowFactory, c.cfg.StatisticsSchedule, c.registry.DataSources(),
		jobs.WithLogger(c.logger),
		jobs.WithRegisterer(c.metrics),
	)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	statistics, err := c.CreateDataSourceStatisticsJob()
	if err != nil {
		return nil, fmt.Errorf("create statistics job: %w", err)
	}
	return jobs.NewJobManager(c.logger, statistics), nil
}
