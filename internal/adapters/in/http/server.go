// Package http is the request handling layer. Handlers only translate shapes:
// they build commands, run them through the processing engine with the
// request's unit of work, map results to responses, and commit explicitly
// when a request writes.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"bookstore/internal/adapters/in/http/openapi"
	"bookstore/internal/adapters/in/http/session"
	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/application/usecases/queries"
	"bookstore/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// CommandExecutor runs command batches. *processing.ProcessingEngine
// implements it.
type CommandExecutor interface {
	Execute(ctx context.Context, uow ports.UnitOfWork, cmds ...commands.Command) ([]commands.CommandResult, error)
	String() string
}

// DataSourcesQueryHandler answers the dashboard query.
type DataSourcesQueryHandler interface {
	Handle(ctx context.Context, query queries.GetDataSourcesQuery) ([]queries.GetDataSourcesQueryResponse, error)
}

// Config holds the route settings of the HTTP surface.
type Config struct {
	RestBaseRoute string
	APIVersion    string
	// Development enables the Swagger UI.
	Development bool
}

// Server owns the HTTP routes of the application.
type Server struct {
	cfg       Config
	engine    CommandExecutor
	factory   ports.UnitOfWorkFactory
	sessions  *session.Manager
	codecs    *Codecs
	document  *openapi.Document
	dashboard DataSourcesQueryHandler
	overview  queries.GetDataSourcesQuery
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewServer creates the HTTP server and builds the OpenAPI document of the
// published data sources.
func NewServer(
	cfg Config,
	engine CommandExecutor,
	factory ports.UnitOfWorkFactory,
	sessions *session.Manager,
	codecs *Codecs,
	dashboard DataSourcesQueryHandler,
	overview queries.GetDataSourcesQuery,
	opts ...Option,
) (*Server, error) {
	if cfg.RestBaseRoute == "" {
		cfg.RestBaseRoute = "rest"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		factory:   factory,
		sessions:  sessions,
		codecs:    codecs,
		dashboard: dashboard,
		overview:  overview,
		gatherer:  prometheus.DefaultGatherer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	resources := make([]openapi.Resource, 0, len(codecs.All()))
	for _, codec := range codecs.All() {
		resources = append(resources, openapi.Resource{DataSource: codec.DataSource(), Schema: codec.Schema()})
	}
	doc, err := openapi.NewDocument(openapi.Info{Title: "bookstore", Version: cfg.APIVersion}, cfg.RestBaseRoute, resources...)
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}
	s.document = doc

	return s, nil
}

// NewEcho returns an echo instance with the middleware every route shares:
// request ids, access logging to zap, panic recovery and ErrorResponse bodies.
func NewEcho(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	access := logger.With(zap.String("component", "http_access"))
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				access.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			access.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	return e
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	docPath := fmt.Sprintf("/swagger/%s/swagger.json", s.cfg.APIVersion)
	e.GET(docPath, s.openAPIDocument)
	if s.cfg.Development {
		if swag.GetSwagger(swaggerInstance) == nil {
			swag.Register(swaggerInstance, s.document)
		}
		e.GET("/swagger/*", echoSwagger.EchoWrapHandler(
			echoSwagger.InstanceName(swaggerInstance),
			echoSwagger.URL(docPath),
		))
	}

	scoped := []echo.MiddlewareFunc{
		session.Middleware(s.sessions, s.logger),
		UnitOfWorkScope(s.factory, s.logger),
	}

	NewDemoController(s.engine, s.sessions).Register(e.Group("/Demo", scoped...))
	NewRhetosController(s.engine, s.sessions).Register(e.Group("/Rhetos", scoped...))
	NewRestController(s.engine, s.codecs).Register(e.Group("/"+trimSlashes(s.cfg.RestBaseRoute), scoped...))

	e.GET("/rhetos/dashboard", s.dashboardPage, session.Middleware(s.sessions, s.logger))
}

const swaggerInstance = "bookstore"

func trimSlashes(route string) string {
	return strings.Trim(route, "/")
}

func (s *Server) openAPIDocument(c echo.Context) error {
	raw, err := s.document.JSON()
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// DashboardResponse describes the running host.
type DashboardResponse struct {
	Engine      string                `json:"engine"`
	DataSources []DashboardDataSource `json:"dataSources"`
}

type DashboardDataSource struct {
	Name        string `json:"name"`
	Table       string `json:"table"`
	RecordCount int64  `json:"recordCount"`
}

func (s *Server) dashboardPage(c echo.Context) error {
	rows, err := s.dashboard.Handle(c.Request().Context(), s.overview)
	if err != nil {
		return err
	}

	resp := DashboardResponse{
		Engine:      s.engine.String(),
		DataSources: make([]DashboardDataSource, 0, len(rows)),
	}
	for _, r := range rows {
		resp.DataSources = append(resp.DataSources, DashboardDataSource{
			Name:        r.DataSource,
			Table:       r.Table,
			RecordCount: r.RecordCount,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
