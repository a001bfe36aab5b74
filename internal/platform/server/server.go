package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	orders "smartWaiter/internal/modules/orders/domain"
	"smartWaiter/internal/platform/store"
	"smartWaiter/internal/shared/httputil"
	"smartWaiter/internal/shared/logging"
)

const apiName = "Smart Waiter Robot API"

// ErrorMapper maps store and request errors onto HTTP statuses. Anything else is
// a 500 carrying the raw error text.
func ErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMapping(store.ErrNotFound, http.StatusNotFound, "").
		WithMapping(store.ErrValidation, http.StatusUnprocessableEntity, "").
		WithMapping(httputil.ErrInvalidRequest, http.StatusUnprocessableEntity, "").
		WithMapping(orders.ErrInvalidStatus, http.StatusUnprocessableEntity, "")
}

// New builds the echo instance shared by every route: validation, {"detail"}
// error bodies, request ids, panic recovery, access logs and permissive CORS.
func New(logger *slog.Logger, logLevel string) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(logging.EchoLevel(logLevel))
	e.Validator = httputil.NewRequestValidator()
	e.HTTPErrorHandler = httputil.NewHTTPErrorHandler(ErrorMapper(), logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("requestId", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(context.Background(), slog.LevelDebug, "http request", attrs...)
			return nil
		},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": apiName})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	return e
}
