package httputil

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders errors as
// {"detail": "..."} using mapper for anything that is not already an *echo.HTTPError.
func NewHTTPErrorHandler(mapper *ErrorMapper, logger *slog.Logger) echo.HTTPErrorHandler {
	if mapper == nil {
		mapper = NewErrorMapper()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		info := mapper.Map(err)
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			info = HTTPErrorInfo{Status: httpErr.Code, Message: fmt.Sprint(httpErr.Message)}
		}

		req := c.Request()
		if info.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", info.Status),
				slog.String("error", err.Error()),
			)
		}

		var writeErr error
		if req.Method == http.MethodHead {
			writeErr = c.NoContent(info.Status)
		} else {
			writeErr = c.JSON(info.Status, ErrorResponse{Detail: info.Message})
		}
		if writeErr != nil {
			logger.Warn("write error response", slog.String("error", writeErr.Error()))
		}
	}
}
