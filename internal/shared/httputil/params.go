package httputil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// PathID parses the named path parameter as a record id.
func PathID(c echo.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidRequest, name, raw)
	}
	return id, nil
}
