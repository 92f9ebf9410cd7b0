package errnormalize

import (
	"fmt"
	"io"
	"net/http"
)

// FromResponse converts a non-2xx/3xx response into a *StatusError,
// capturing its body and the headers sent on its request. It returns
// nil, nil for informational, successful and redirect responses.
// The body is read to EOF but not closed.
func FromResponse(resp *http.Response) (*StatusError, error) {
	if resp == nil || resp.StatusCode < http.StatusBadRequest {
		return nil, nil
	}
	se := &StatusError{StatusCode: resp.StatusCode}
	if resp.Request != nil {
		se.Header = resp.Request.Header.Clone()
	}
	if resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		if len(body) > 0 {
			se.Body = string(body)
		}
	}
	return se, nil
}
