package http

import "github.com/labstack/echo/v4"

// Handler is implemented by transport handlers that attach their routes to
// the Echo instance at server construction time.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
