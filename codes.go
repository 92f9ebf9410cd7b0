package errnormalize

const (
	// DefaultCode is used when no 3-digit code can be recovered.
	DefaultCode = 500

	// DefaultMessage is used when no non-empty message can be recovered.
	DefaultMessage = "unspecified error"

	// StatusCodeErrorName marks an HTTP client error wrapping a
	// non-2xx/3xx response.
	StatusCodeErrorName = "StatusCodeError"

	// DefaultTraceHeader is the outgoing request header whose value is
	// authoritative for a status error's trace_id.
	DefaultTraceHeader = "trace"

	// formatterMessage is used when an internal failure carries no message.
	formatterMessage = "formatter error"

	// locationMarker is the first detail of an internal-failure result.
	locationMarker = `{"location":"Normalize() err-normalize"}`
)
