package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the user id injected by the Auth middleware and
// fast-fails before any service call: a zero id means the middleware never
// ran for this route, which is a wiring bug surfaced as 401 rather than a
// panic downstream.
func ctxUserID(c echo.Context) (int64, error) {
	id, ok := c.Get("user_id").(int64)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
