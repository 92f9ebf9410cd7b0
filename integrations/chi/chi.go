// Package chi provides thin adapters for using err-normalize with chi router.
//
// Chi uses standard net/http handlers, so errnormalize.Middleware works
// directly. This package exists for discoverability and convenience.
package chi

import (
	"net/http"

	errnormalize "github.com/blackwell-systems/err-normalize"
)

// Bind returns chi middleware that attaches a request-scoped normalizer
// to every request. A nil n binds the default normalizer.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(chi.Bind(errnormalize.New()))
//	r.Get("/user", func(w http.ResponseWriter, r *http.Request) {
//	    e := errnormalize.FromContext(r.Context()).Normalize(err)
//	    // ...
//	})
func Bind(n *errnormalize.Normalizer) func(http.Handler) http.Handler {
	return errnormalize.Middleware(n)
}
