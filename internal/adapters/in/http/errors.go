package http

import (
	"errors"
	"fmt"
	"net/http"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const internalErrorMessage = "Internal server error. See the server log for details."

// StatusFor maps an error kind to an HTTP status. Authorization failures are
// 401 when nobody is signed in and 403 otherwise.
func StatusFor(kind errs.Kind, authenticated bool) int {
	switch kind {
	case errs.KindValidationFailed:
		return http.StatusBadRequest
	case errs.KindAuthorization:
		if authenticated {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler writes ErrorResponse bodies for errors returned by handlers.
// Server side failures are logged and their details are kept out of the body.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	logger = logger.With(zap.String("component", "http"))
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := toErrorResponse(err, c)
		if resp.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.String("kind", resp.Kind),
				zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(resp.Code)
		} else {
			writeErr = c.JSON(resp.Code, resp)
		}
		if writeErr != nil {
			logger.Error("writing error response", zap.Error(writeErr))
		}
	}
}

func toErrorResponse(err error, c echo.Context) ErrorResponse {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return ErrorResponse{
			Code:    he.Code,
			Kind:    kindForStatus(he.Code).String(),
			Message: fmt.Sprint(he.Message),
		}
	}

	cmdErr := errs.AsCommandError(err)
	_, authenticated := kernel.PrincipalFrom(c.Request().Context())
	status := StatusFor(cmdErr.Kind, authenticated)

	message := cmdErr.Message
	if cmdErr.DataSource != "" {
		message = cmdErr.DataSource + ": " + message
	}
	if cmdErr.Kind == errs.KindInfrastructure {
		message = internalErrorMessage
	}

	return ErrorResponse{Code: status, Kind: cmdErr.Kind.String(), Message: message}
}

func kindForStatus(status int) errs.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return errs.KindValidationFailed
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.KindAuthorization
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errs.KindNotFound
	case http.StatusConflict:
		return errs.KindConflict
	default:
		return errs.KindInfrastructure
	}
}

func validationError(message string, cause error) *errs.CommandError {
	return errs.NewCommandErrorWithCause(errs.KindValidationFailed, message, cause)
}
