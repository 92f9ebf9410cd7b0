// Package resty converts go-resty responses into err-normalize values.
package resty

import (
	errnormalize "github.com/blackwell-systems/err-normalize"
	"github.com/go-resty/resty/v2"
)

// StatusError returns resp as a status error, or nil when resp is not a
// 4xx/5xx response.
func StatusError(resp *resty.Response) *errnormalize.StatusError {
	if resp == nil || !resp.IsError() {
		return nil
	}
	se := &errnormalize.StatusError{StatusCode: resp.StatusCode()}
	if body := resp.Body(); len(body) > 0 {
		se.Body = string(body)
	}
	if resp.Request != nil && resp.Request.Header != nil {
		se.Header = resp.Request.Header.Clone()
	}
	return se
}

// Normalize converts the outcome of a resty call. A transport error is
// normalized as a generic error; a 4xx/5xx response as a status error.
// It returns nil when the call succeeded. A nil n uses the default
// normalizer.
//
// Example:
//
//	resp, err := client.R().SetHeader("trace", id).Get("/users/42")
//	if e := resty.Normalize(n, resp, err); e != nil {
//	    return e
//	}
func Normalize(n *errnormalize.Normalizer, resp *resty.Response, err error) *errnormalize.Error {
	if err != nil {
		return n.Normalize(err)
	}
	if se := StatusError(resp); se != nil {
		return n.Normalize(se)
	}
	return nil
}
