package errnormalize

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StatusError is an HTTP client error for a non-2xx/3xx response.
// Body holds the response body as received (string, []byte) or already
// decoded (map, struct). Header holds the headers sent on the request.
type StatusError struct {
	StatusCode int
	Body       any
	Header     http.Header
}

// Name identifies the error kind, matching the marker used by
// JSON-decoded status errors.
func (e *StatusError) Name() string { return StatusCodeErrorName }

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d - %s", e.StatusCode, bodyText(e.Body))
}

func bodyText(body any) string {
	switch b := body.(type) {
	case nil:
		return ""
	case string:
		return b
	case []byte:
		return string(b)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprint(body)
	}
	return string(data)
}

// statusSource is the normalized view of a status error, whether it
// arrived as a *StatusError or as a decoded map.
type statusSource struct {
	status  any
	body    any
	hasBody bool
	trace   any
}

// statusShape mirrors the JSON layout of an HTTP client status error:
// {name, statusCode, response: {body}, options: {headers: {...}}}.
type statusShape struct {
	Name       any `mapstructure:"name"`
	StatusCode any `mapstructure:"statusCode"`
	Response   any `mapstructure:"response"`
	Options    any `mapstructure:"options"`
}

func fromStatusError(e *StatusError, traceHeader string) statusSource {
	src := statusSource{
		status:  e.StatusCode,
		body:    e.Body,
		hasBody: e.Body != nil,
	}
	if e.Header != nil {
		src.trace = e.Header.Get(traceHeader)
	}
	return src
}

func fromStatusMap(m map[string]any, traceHeader string) (statusSource, error) {
	var shape statusShape
	if err := decodeExact(m, &shape); err != nil {
		return statusSource{}, fmt.Errorf("decode status error: %w", err)
	}
	src := statusSource{status: shape.StatusCode}
	if resp, ok := shape.Response.(map[string]any); ok {
		src.body, src.hasBody = resp["body"]
	}
	if opts, ok := shape.Options.(map[string]any); ok {
		if headers, ok := opts["headers"].(map[string]any); ok {
			src.trace = headers[traceHeader]
		}
	}
	return src, nil
}
