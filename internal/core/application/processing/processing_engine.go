package processing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	pkgmetrics "bookstore/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const instrumentationName = "bookstore/internal/core/application/processing"

// ProcessingEngine executes command batches inside a caller supplied unit of
// work.
//
// For a batch c[0..n-1] Execute returns either n results, all successful, or
// k+1 results where results[k] is the first failure and commands after k never
// ran. Effects of earlier commands stay pending in the unit of work: the engine
// never commits. Each command runs after a savepoint, and a command that fails
// is rolled back to its savepoint, so the caller can still commit the earlier
// effects. The engine rolls the whole unit of work back itself only when the
// failure is an infrastructure failure or the context was cancelled.
type ProcessingEngine struct {
	reads commands.ReadCommandHandler
	saves commands.SaveCommandHandler

	dataSources    []kernel.DataSource
	allowAnonymous bool

	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *metrics
}

type config struct {
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
	registerer     prometheus.Registerer
	dataSources    []kernel.DataSource
	allowAnonymous bool
}

// Option configures a ProcessingEngine.
type Option func(*config)

func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) { c.tracerProvider = tp }
}

// WithRegisterer sets where engine metrics are registered. Without it the
// engine registers on a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) { c.registerer = reg }
}

// WithDataSources lists the data sources reported by String.
func WithDataSources(ds ...kernel.DataSource) Option {
	return func(c *config) { c.dataSources = append(c.dataSources, ds...) }
}

// WithAnonymousAccess lets batches run without a principal in the context.
func WithAnonymousAccess(allow bool) Option {
	return func(c *config) { c.allowAnonymous = allow }
}

func NewProcessingEngine(opts ...Option) (*ProcessingEngine, error) {
	cfg := config{
		logger:         zap.NewNop(),
		tracerProvider: noop.NewTracerProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	m, err := newMetrics(pkgmetrics.RegistererOrNew(cfg.registerer))
	if err != nil {
		return nil, fmt.Errorf("register processing metrics: %w", err)
	}

	return &ProcessingEngine{
		reads:          commands.NewReadCommandHandler(),
		saves:          commands.NewSaveCommandHandler(),
		dataSources:    cfg.dataSources,
		allowAnonymous: cfg.allowAnonymous,
		logger:         cfg.logger.With(zap.String("component", "processing_engine")),
		tracer:         cfg.tracerProvider.Tracer(instrumentationName),
		metrics:        m,
	}, nil
}

// Execute runs cmds in order against uow, stopping at the first failure.
//
// Precondition failures return no results: an empty batch is a
// ValidationFailed error, a unit of work that is not open or already in use is
// InvalidState, a missing principal is Authorization. Every other failure is
// reported both as the last result and as the returned error.
func (e *ProcessingEngine) Execute(
	ctx context.Context,
	uow ports.UnitOfWork,
	cmds ...commands.Command,
) ([]commands.CommandResult, error) {
	ctx, span := e.tracer.Start(ctx, "ProcessingEngine.Execute",
		trace.WithAttributes(attribute.Int("bookstore.batch.size", len(cmds))))
	defer span.End()

	started := time.Now()
	defer e.metrics.observeBatch(started)

	if err := e.checkPreconditions(ctx, uow, cmds); err != nil {
		recordError(span, err)
		return nil, err
	}

	release, err := uow.Acquire()
	if err != nil {
		cmdErr := errs.AsCommandError(err)
		recordError(span, cmdErr)
		return nil, cmdErr
	}

	e.logger.Debug("executing command batch",
		zap.Int("size", len(cmds)),
		zap.Strings("data_sources", dataSourceNames(cmds)))

	results, failure := e.run(ctx, uow, cmds)
	release()

	if failure == nil {
		return results, nil
	}

	recordError(span, failure)
	if failure.Kind == errs.KindInfrastructure || ctx.Err() != nil {
		e.rollback(ctx, uow)
	}
	return results, failure
}

// String describes the engine and the data sources it can reach.
func (e *ProcessingEngine) String() string {
	names := make([]string, 0, len(e.dataSources))
	for _, ds := range e.dataSources {
		names = append(names, ds.String())
	}
	return fmt.Sprintf("ProcessingEngine (read, save) over %d data sources: %s",
		len(names), strings.Join(names, ", "))
}

func (e *ProcessingEngine) checkPreconditions(ctx context.Context, uow ports.UnitOfWork, cmds []commands.Command) error {
	if len(cmds) == 0 {
		return errs.NewCommandError(errs.KindValidationFailed, "command batch is empty")
	}
	for i, cmd := range cmds {
		if cmd == nil {
			return errs.NewCommandError(errs.KindValidationFailed, fmt.Sprintf("command %d is nil", i))
		}
	}
	if uow == nil {
		return errs.NewCommandError(errs.KindInvalidState, "unit of work is required")
	}
	if state := uow.State(); state != ports.Open {
		return errs.NewCommandError(errs.KindInvalidState, fmt.Sprintf("unit of work is %s", state))
	}
	if !e.allowAnonymous {
		if _, ok := kernel.PrincipalFrom(ctx); !ok {
			return errs.NewCommandError(errs.KindAuthorization, "an authenticated principal is required")
		}
	}
	return nil
}

func (e *ProcessingEngine) run(
	ctx context.Context,
	uow ports.UnitOfWork,
	cmds []commands.Command,
) ([]commands.CommandResult, *errs.CommandError) {
	if err := uow.Begin(ctx); err != nil {
		failure := errs.AsCommandError(err)
		if failure.Kind != errs.KindInvalidState {
			failure = errs.NewCommandErrorWithCause(errs.KindInfrastructure, "begin unit of work", err)
		}
		result := commands.NewFailure(cmds[0].Type(), cmds[0].DataSource(), failure)
		return []commands.CommandResult{result}, result.Err
	}

	results := make([]commands.CommandResult, 0, len(cmds))
	for i, cmd := range cmds {
		savepoint := savepointName(i)
		if err := uow.Savepoint(ctx, savepoint); err != nil {
			result := commands.NewFailure(cmd.Type(), cmd.DataSource(), savepointFailure(ctx, err))
			return append(results, result), result.Err
		}

		result := e.runOne(ctx, uow, cmd)
		if !result.Succeeded() {
			e.logger.Warn("command failed",
				zap.Int("index", i),
				zap.String("type", string(cmd.Type())),
				zap.String("data_source", cmd.DataSource().String()),
				zap.String("kind", result.Err.Kind.String()),
				zap.Error(result.Err))
			result = e.restore(ctx, uow, cmd, savepoint, result)
			return append(results, result), result.Err
		}
		results = append(results, result)
	}
	return results, nil
}

// restore undoes the partial effects of a failed command so the effects of the
// commands before it stay pending and the transaction stays usable. When the
// savepoint cannot be restored the failure becomes an infrastructure failure.
func (e *ProcessingEngine) restore(
	ctx context.Context,
	uow ports.UnitOfWork,
	cmd commands.Command,
	savepoint string,
	failed commands.CommandResult,
) commands.CommandResult {
	if failed.Err.Kind == errs.KindInfrastructure || ctx.Err() != nil {
		return failed
	}

	if err := uow.RollbackTo(ctx, savepoint); err != nil {
		e.logger.Error("restore savepoint after failed command",
			zap.String("savepoint", savepoint),
			zap.NamedError("failure", failed.Err),
			zap.Error(err))
		failure := errs.NewCommandErrorWithCause(errs.KindInfrastructure,
			"restore state before failed command", err).WithDataSource(cmd.DataSource().String())
		return commands.NewFailure(cmd.Type(), cmd.DataSource(), failure)
	}
	return failed
}

func savepointName(index int) string {
	return fmt.Sprintf("bookstore_command_%d", index)
}

func savepointFailure(ctx context.Context, err error) *errs.CommandError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errs.NewCommandErrorWithCause(errs.KindInfrastructure, "execution cancelled", ctxErr)
	}
	failure := errs.AsCommandError(err)
	if failure.Kind != errs.KindInvalidState {
		failure = errs.NewCommandErrorWithCause(errs.KindInfrastructure, "create savepoint", err)
	}
	return failure
}

func (e *ProcessingEngine) runOne(ctx context.Context, uow ports.UnitOfWork, cmd commands.Command) commands.CommandResult {
	ds := cmd.DataSource()
	ctx, span := e.tracer.Start(ctx, fmt.Sprintf("%s %s", cmd.Type(), ds),
		trace.WithAttributes(
			attribute.String("bookstore.command.type", string(cmd.Type())),
			attribute.String("bookstore.data_source", ds.String()),
		))
	defer span.End()

	result := e.dispatch(ctx, uow, cmd)

	outcome := "success"
	if !result.Succeeded() {
		outcome = result.Err.Kind.String()
		recordError(span, result.Err)
	}
	e.metrics.observeCommand(string(cmd.Type()), ds.String(), outcome)
	return result
}

func (e *ProcessingEngine) dispatch(ctx context.Context, uow ports.UnitOfWork, cmd commands.Command) commands.CommandResult {
	ds := cmd.DataSource()
	if err := ctx.Err(); err != nil {
		return commands.NewFailure(cmd.Type(), ds,
			errs.NewCommandErrorWithCause(errs.KindInfrastructure, "execution cancelled", err))
	}

	switch c := cmd.(type) {
	case commands.ReadCommand:
		read, err := e.reads.Handle(ctx, uow, c)
		if err != nil {
			return commands.NewFailure(c.Type(), ds, errs.AsCommandError(err))
		}
		return commands.NewReadSuccess(ds, read)
	case commands.SaveCommand:
		save, err := e.saves.Handle(ctx, uow, c)
		if err != nil {
			return commands.NewFailure(c.Type(), ds, errs.AsCommandError(err))
		}
		return commands.NewSaveSuccess(ds, save)
	default:
		return commands.NewFailure(cmd.Type(), ds,
			errs.NewCommandError(errs.KindValidationFailed, fmt.Sprintf("unsupported command %T", cmd)))
	}
}

func (e *ProcessingEngine) rollback(ctx context.Context, uow ports.UnitOfWork) {
	if uow.State() != ports.Open {
		return
	}
	if err := uow.Rollback(context.WithoutCancel(ctx)); err != nil {
		e.logger.Error("rollback after failed batch", zap.Error(err))
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func dataSourceNames(cmds []commands.Command) []string {
	names := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		names = append(names, cmd.DataSource().String())
	}
	return names
}
