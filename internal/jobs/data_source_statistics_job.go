package jobs

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/logger"
	pkgmetrics "bookstore/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SystemPrincipal is the user the statistics job runs commands as.
const SystemPrincipal = "system"

// DefaultStatisticsTimeout bounds one statistics run.
const DefaultStatisticsTimeout = 30 * time.Second

// CommandExecutor runs command batches. *processing.ProcessingEngine
// implements it.
type CommandExecutor interface {
	Execute(ctx context.Context, uow ports.UnitOfWork, cmds ...commands.Command) ([]commands.CommandResult, error)
}

// DataSourceStatisticsJob periodically counts the records of each data source.
type DataSourceStatisticsJob struct {
	engine      CommandExecutor
	factory     ports.UnitOfWorkFactory
	schedule    string
	dataSources []kernel.DataSource
	timeout     time.Duration

	cron    *cron.Cron
	records *prometheus.GaugeVec
	logger  *zap.Logger
}

type statisticsConfig struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
	timeout    time.Duration
}

type Option func(*statisticsConfig)

func WithLogger(l *zap.Logger) Option {
	return func(c *statisticsConfig) { c.logger = l }
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *statisticsConfig) { c.registerer = reg }
}

func WithTimeout(d time.Duration) Option {
	return func(c *statisticsConfig) { c.timeout = d }
}

func NewDataSourceStatisticsJob(
	engine CommandExecutor,
	factory ports.UnitOfWorkFactory,
	schedule string,
	dataSources []kernel.DataSource,
	opts ...Option,
) (*DataSourceStatisticsJob, error) {
	cfg := statisticsConfig{logger: zap.NewNop(), timeout: DefaultStatisticsTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	records, err := pkgmetrics.Register(pkgmetrics.RegistererOrNew(cfg.registerer),
		prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: pkgmetrics.Namespace,
			Name:      "data_source_records",
			Help:      "Records stored per data source, as of the last statistics run.",
		}, []string{"data_source"}))
	if err != nil {
		return nil, fmt.Errorf("register statistics metrics: %w", err)
	}

	l := cfg.logger.With(zap.String("component", "data_source_statistics_job"))
	cronLogger := cron.PrintfLogger(logger.Std(l, "cron"))

	return &DataSourceStatisticsJob{
		engine:      engine,
		factory:     factory,
		schedule:    schedule,
		dataSources: append([]kernel.DataSource(nil), dataSources...),
		timeout:     cfg.timeout,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		records: records,
		logger:  l,
	}, nil
}

func (j *DataSourceStatisticsJob) Name() string {
	return "data source statistics job"
}

// Start schedules the job. An invalid schedule is reported here.
func (j *DataSourceStatisticsJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		if err := j.Run(ctx); err != nil {
			j.logger.Error("statistics run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("data source statistics job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop unschedules the job and waits for a running pass to finish.
func (j *DataSourceStatisticsJob) Stop() {
	<-j.cron.Stop().Done()
}

// Run counts every data source in one batch of count-only reads. The gauges
// are only updated when the whole batch succeeds.
func (j *DataSourceStatisticsJob) Run(ctx context.Context) error {
	if len(j.dataSources) == 0 {
		return nil
	}

	principal, err := kernel.NewPrincipal(SystemPrincipal)
	if err != nil {
		return err
	}
	ctx = kernel.WithPrincipal(ctx, principal)

	cmds := make([]commands.Command, 0, len(j.dataSources))
	for _, ds := range j.dataSources {
		cmd, cmdErr := commands.NewReadCommand(ds, commands.WithoutRecords())
		if cmdErr != nil {
			return cmdErr
		}
		cmds = append(cmds, cmd)
	}

	uow := j.factory.Create()
	defer func() {
		if closeErr := uow.Close(context.WithoutCancel(ctx)); closeErr != nil {
			j.logger.Warn("closing statistics unit of work", zap.Error(closeErr))
		}
	}()

	results, err := j.engine.Execute(ctx, uow, cmds...)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Read == nil || r.Read.TotalCount == nil {
			continue
		}
		j.records.WithLabelValues(r.DataSource.String()).Set(float64(*r.Read.TotalCount))
	}
	j.logger.Debug("data source statistics updated", zap.Int("data_sources", len(results)))
	return nil
}
