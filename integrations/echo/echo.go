// Package echo provides adapters for using err-normalize with Echo framework.
package echo

import (
	errnormalize "github.com/blackwell-systems/err-normalize"
	echofw "github.com/labstack/echo/v4"
)

// Bind adapts the request-scoped normalizer binding to Echo's
// middleware interface.
//
// Example:
//
//	e := echo.New()
//	e.Use(Bind(errnormalize.New()))
//	e.GET("/user", func(c echo.Context) error {
//	    return c.JSON(http.StatusBadGateway, Normalize(c, err))
//	})
func Bind(n *errnormalize.Normalizer) echofw.MiddlewareFunc {
	return func(next echofw.HandlerFunc) echofw.HandlerFunc {
		return func(c echofw.Context) error {
			r := c.Request()
			c.SetRequest(r.WithContext(errnormalize.WithNormalizer(r.Context(), n.ForRequest(r))))
			return next(c)
		}
	}
}

// Normalize converts input with the normalizer bound to the request.
func Normalize(c echofw.Context, input any) *errnormalize.Error {
	if c == nil || c.Request() == nil {
		return errnormalize.Normalize(input)
	}
	return errnormalize.FromContext(c.Request().Context()).Normalize(input)
}
