// Package gin provides adapters for using err-normalize with Gin framework.
package gin

import (
	errnormalize "github.com/blackwell-systems/err-normalize"
	"github.com/gin-gonic/gin"
)

// Bind wires a request-scoped normalizer into Gin's middleware chain.
// Errors normalized during the request default to the inbound trace
// header as their trace_id.
//
// Example:
//
//	r := gin.Default()
//	r.Use(Bind(errnormalize.New()))
//	r.GET("/user", func(c *gin.Context) {
//	    e := Normalize(c, err)
//	    // ...
//	})
func Bind(n *errnormalize.Normalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := errnormalize.WithNormalizer(c.Request.Context(), n.ForRequest(c.Request))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Normalize converts input with the normalizer bound to the request.
func Normalize(c *gin.Context, input any) *errnormalize.Error {
	if c == nil || c.Request == nil {
		return errnormalize.Normalize(input)
	}
	return errnormalize.FromContext(c.Request.Context()).Normalize(input)
}
