package http

import (
	"context"

	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const unitOfWorkKey = "bookstore.unit_of_work"

// UnitOfWorkScope gives every request its own unit of work. The unit is closed
// when the handler returns, which rolls back anything the handler did not
// commit.
func UnitOfWorkScope(factory ports.UnitOfWorkFactory, logger *zap.Logger) echo.MiddlewareFunc {
	logger = logger.With(zap.String("component", "unit_of_work_scope"))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uow := factory.Create()
			c.Set(unitOfWorkKey, uow)

			defer func() {
				ctx := context.WithoutCancel(c.Request().Context())
				if err := uow.Close(ctx); err != nil {
					logger.Error("closing request unit of work",
						zap.String("uri", c.Request().RequestURI),
						zap.Error(err))
				}
			}()

			return next(c)
		}
	}
}

// UnitOfWorkFrom returns the unit of work of the current request.
func UnitOfWorkFrom(c echo.Context) (ports.UnitOfWork, error) {
	uow, ok := c.Get(unitOfWorkKey).(ports.UnitOfWork)
	if !ok || uow == nil {
		return nil, errs.NewCommandError(errs.KindInvalidState, "request has no unit of work scope")
	}
	return uow, nil
}
