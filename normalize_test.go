package errnormalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID(id string) Option {
	return WithIDGenerator(func() string { return id })
}

func assertCanonical(t *testing.T, e *Error) {
	t.Helper()
	require.NotNil(t, e)
	assert.NotZero(t, e.Code)
	assert.NotEmpty(t, e.Message)
	assert.NotEmpty(t, e.TraceID)
	assert.NotNil(t, e.Details)
}

func TestNormalizeDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"empty string", ""},
		{"false", false},
		{"zero", 0},
		{"nan", math.NaN()},
		{"nil pointer", (*Error)(nil)},
		{"nil map", map[string]any(nil)},
		{"nil error", error(nil)},
		{"empty bytes", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(fixedID("trace-1")).Normalize(tt.input)

			assert.Equal(t, &Error{
				Code:    500,
				Message: "unspecified error",
				TraceID: "trace-1",
				Details: []string{},
			}, e)
		})
	}
}

func TestNormalizeDefaultTraceIsUUID(t *testing.T) {
	e := Normalize(nil)

	id, err := uuid.Parse(e.TraceID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
	assert.NotEqual(t, e.TraceID, Normalize(nil).TraceID)
}

func TestNormalizeString(t *testing.T) {
	e := Normalize("boom")

	assert.Equal(t, 500, e.Code)
	assert.Equal(t, "boom", e.Message)
	assert.NotEmpty(t, e.TraceID)
	assert.Equal(t, []string{}, e.Details)

	assert.Equal(t, "raw bytes", Normalize([]byte("raw bytes")).Message)
}

func TestNormalizeGenericObject(t *testing.T) {
	e := New(fixedID("generated")).Normalize(map[string]any{
		"code":     "404",
		"message":  "user not found",
		"trace_id": "abc",
		"details":  []any{"id=42"},
	})

	assert.Equal(t, 404, e.Code)
	assert.Equal(t, "user not found", e.Message)
	assert.Equal(t, "abc", e.TraceID)
	assert.Equal(t, []string{"id=42"}, e.Details)
}

func TestNormalizeCodeLength(t *testing.T) {
	tests := []struct {
		name string
		code any
		want int
	}{
		{"two digits", 42, 500},
		{"three digit string", "404", 404},
		{"three digit int", 418, 418},
		{"integral float", float64(503), 503},
		{"four digits", 4040, 500},
		{"non-integral float", 40.5, 500},
		{"letters", "abc", 500},
		{"all zeros", "000", 500},
		{"negative", -12, 500},
		{"bool", true, 500},
		{"json number", json.Number("409"), 409},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Normalize(map[string]any{"code": tt.code})
			assert.Equal(t, tt.want, e.Code)
		})
	}
}

func TestNormalizeGenericScalarFields(t *testing.T) {
	e := New(fixedID("generated")).Normalize(map[string]any{
		"message":  42,
		"trace_id": 7,
	})
	assert.Equal(t, "42", e.Message)
	assert.Equal(t, "7", e.TraceID)

	e = New(fixedID("generated")).Normalize(map[string]any{
		"message":  0,
		"trace_id": map[string]any{"x": 1},
	})
	assert.Equal(t, DefaultMessage, e.Message)
	assert.Equal(t, "generated", e.TraceID)
}

func TestNormalizeKeysAreCaseSensitive(t *testing.T) {
	e := Normalize(map[string]any{"Code": "404", "Message": "nope"})

	assert.Equal(t, 500, e.Code)
	assert.Equal(t, DefaultMessage, e.Message)
}

func TestNormalizeDetailsFiltering(t *testing.T) {
	e := Normalize(map[string]any{
		"details": []any{"first", map[string]any{"field": "email"}, 3, nil, []any{1, "x"}, true},
	})

	assert.Equal(t, []string{"first", `{"field":"email"}`, `[1,"x"]`}, e.Details)
}

func TestNormalizeDetailsEmptyAfterFilter(t *testing.T) {
	e := Normalize(map[string]any{"details": []any{1, nil}})

	require.NotNil(t, e.Details)
	assert.Empty(t, e.Details)
}

func TestNormalizeDetailsNotArray(t *testing.T) {
	e := Normalize(map[string]any{"details": "just a string"})

	assert.Equal(t, []string{}, e.Details)
}

func TestNormalizeGoError(t *testing.T) {
	e := Normalize(errors.New("npm run test error"))

	assert.Equal(t, 500, e.Code)
	assert.Equal(t, "npm run test error", e.Message)
	assert.Equal(t, []string{}, e.Details)
}

type codedError struct {
	status int
	trace  string
}

func (e codedError) Error() string   { return "coded failure" }
func (e codedError) StatusCode() int { return e.status }
func (e codedError) TraceID() string { return e.trace }

type httpStatusError struct{}

func (httpStatusError) Error() string   { return "upstream said no" }
func (httpStatusError) HTTPStatus() int { return 403 }

type taggedError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *taggedError) Error() string { return "fallback text" }

func TestNormalizeGoErrorInterfaces(t *testing.T) {
	e := Normalize(fmt.Errorf("wrapped: %w", codedError{status: 422, trace: "t-9"}))
	assert.Equal(t, 422, e.Code)
	assert.Equal(t, "wrapped: coded failure", e.Message)
	assert.Equal(t, "t-9", e.TraceID)

	e = Normalize(httpStatusError{})
	assert.Equal(t, 403, e.Code)
	assert.Equal(t, "upstream said no", e.Message)

	e = Normalize(codedError{status: 42})
	assert.Equal(t, 500, e.Code)
}

func TestNormalizeGoErrorJSONFields(t *testing.T) {
	e := Normalize(&taggedError{Code: "409", Message: "duplicate", Details: []string{"email"}})

	assert.Equal(t, 409, e.Code)
	assert.Equal(t, "duplicate", e.Message)
	assert.Equal(t, []string{"email"}, e.Details)

	e = Normalize(&taggedError{})
	assert.Equal(t, "fallback text", e.Message)
}

func TestNormalizeStruct(t *testing.T) {
	type payload struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		TraceID string `json:"trace_id"`
	}
	e := Normalize(payload{Code: 401, Message: "expired token", TraceID: "t-1"})

	assert.Equal(t, 401, e.Code)
	assert.Equal(t, "expired token", e.Message)
	assert.Equal(t, "t-1", e.TraceID)
}

func TestNormalizeTruthyNonObjects(t *testing.T) {
	for _, input := range []any{42, true, 3.5, []any{"a"}, []int{1, 2}} {
		e := New(fixedID("x")).Normalize(input)
		assert.Equal(t, &Error{Code: 500, Message: DefaultMessage, TraceID: "x", Details: []string{}}, e, "input %v", input)
	}
}

func TestNormalizeCanonicalIsStable(t *testing.T) {
	in := &Error{
		Code:    409,
		Message: "conflict",
		TraceID: "trace-xyz",
		Details: []string{"a", `{"b":1}`},
	}
	out := Normalize(in)

	assert.Equal(t, in, out)
	assert.NotSame(t, in, out)

	again := Normalize(*out)
	assert.Equal(t, in, again)

	wrapped := Normalize(fmt.Errorf("context: %w", in))
	assert.Equal(t, in, wrapped)
}

func TestNormalizeCanonicalWithoutTrace(t *testing.T) {
	out := New(fixedID("fresh")).Normalize(&Error{Code: 400, Message: "bad"})

	assert.Equal(t, "fresh", out.TraceID)
	assert.Equal(t, []string{}, out.Details)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := map[string]any{
		"name":       StatusCodeErrorName,
		"statusCode": 502,
		"response":   map[string]any{"body": `{"code":"404","message":"gone"}`},
	}
	Normalize(in)

	assert.Equal(t, `{"code":"404","message":"gone"}`, in["response"].(map[string]any)["body"])
}

type explodingError struct{}

func (explodingError) Error() string { panic("boom inside Error") }

type explodingJSON struct{}

func (explodingJSON) MarshalJSON() ([]byte, error) { panic(errors.New("marshal exploded")) }

func TestNormalizeRecoversPanics(t *testing.T) {
	e := New(fixedID("kept")).Normalize(explodingError{})

	assert.Equal(t, 500, e.Code)
	assert.Equal(t, "boom inside Error", e.Message)
	assert.Equal(t, "kept", e.TraceID)
	assert.Equal(t, []string{locationMarker, "boom inside Error"}, e.Details)

	e = Normalize(explodingJSON{})
	assert.Equal(t, 500, e.Code)
	assert.Equal(t, "marshal exploded", e.Message)
	assert.Equal(t, []string{locationMarker, "marshal exploded"}, e.Details)
}

func TestNormalizeCyclicDetails(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	e := Normalize(map[string]any{
		"message": "will be replaced",
		"details": []any{"ok", cyclic},
	})

	assertCanonical(t, e)
	assert.Equal(t, 500, e.Code)
	require.Len(t, e.Details, 2)
	assert.Equal(t, locationMarker, e.Details[0])
	assert.Contains(t, e.Details[1], "cycle")
	assert.Equal(t, e.Details[1], e.Message)
}

func TestNormalizeFailureLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	New(WithLogger(logger), fixedID("trace-log")).Normalize(explodingError{})

	assert.Contains(t, buf.String(), "error normalization failed")
	assert.Contains(t, buf.String(), "trace-log")
}

func TestNormalizeNoLoggerByDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))

	Normalize(explodingError{})

	assert.Empty(t, buf.String())
}

func TestIDGeneratorFallbacks(t *testing.T) {
	e := New(WithIDGenerator(func() string { return "" })).Normalize(nil)
	_, err := uuid.Parse(e.TraceID)
	assert.NoError(t, err)

	e = New(WithIDGenerator(func() string { panic("no ids today") })).Normalize(nil)
	_, err = uuid.Parse(e.TraceID)
	assert.NoError(t, err)

	e = New(WithIDGenerator(nil)).Normalize(nil)
	assert.NotEmpty(t, e.TraceID)
}

func TestNilNormalizerUsesDefault(t *testing.T) {
	var n *Normalizer
	e := n.Normalize("still works")

	assert.Equal(t, "still works", e.Message)
}

func TestNormalizeEncodesAsCanonicalJSON(t *testing.T) {
	data, err := json.Marshal(New(fixedID("t")).Normalize(nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{"code":500,"message":"unspecified error","trace_id":"t","details":[]}`, string(data))
}

func TestNormalizeStatusViaHTTPHeader(t *testing.T) {
	h := http.Header{}
	h.Set("X-Trace", "from-header")
	se := &StatusError{StatusCode: 500, Header: h}

	assert.Equal(t, "from-header", New(WithTraceHeader("X-Trace")).Normalize(se).TraceID)
	assert.NotEqual(t, "from-header", New().Normalize(se).TraceID)
}

func FuzzNormalizeString(f *testing.F) {
	f.Add("")
	f.Add("boom")
	f.Add(`{"code":"404"}`)
	f.Fuzz(func(t *testing.T, s string) {
		for _, input := range []any{
			s,
			map[string]any{"message": s, "code": s, "trace_id": s},
			&StatusError{StatusCode: 502, Body: s},
		} {
			e := Normalize(input)
			if e == nil || e.Code == 0 || e.Message == "" || e.TraceID == "" || e.Details == nil {
				t.Fatalf("non-canonical result for %#v: %#v", input, e)
			}
		}
	})
}
