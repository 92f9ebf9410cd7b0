package errnormalize

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// IDGenerator returns a fresh trace identifier.
type IDGenerator func() string

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithIDGenerator sets the generator for default trace IDs.
// A nil generator is ignored.
func WithIDGenerator(g IDGenerator) Option {
	return func(n *Normalizer) {
		if g != nil {
			n.newID = g
		}
	}
}

// WithTraceHeader sets the outgoing request header that carries the
// authoritative trace ID of a status error. Empty names are ignored.
func WithTraceHeader(name string) Option {
	return func(n *Normalizer) {
		if name != "" {
			n.traceHeader = name
		}
	}
}

// WithLogger enables a warning log line for every internal failure
// absorbed by Normalize.
func WithLogger(l *slog.Logger) Option {
	return func(n *Normalizer) { n.logger = l }
}

// Normalizer converts arbitrary error values into *Error.
// It is immutable after New and safe for concurrent use.
type Normalizer struct {
	newID       IDGenerator
	traceHeader string
	logger      *slog.Logger
}

// New returns a Normalizer. By default trace IDs are random UUIDv4
// values and the trace header is DefaultTraceHeader.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		newID:       uuid.NewString,
		traceHeader: DefaultTraceHeader,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize converts input with the default Normalizer.
func Normalize(input any) *Error {
	return defaultNormalizer.Normalize(input)
}

// draft tracks the code as text until the result is final, so code
// comparisons and message prefixes see the value as it was received.
type draft struct {
	out  *Error
	code string
}

// Normalize converts input into a canonical *Error. It never panics and
// never returns nil.
func (n *Normalizer) Normalize(input any) (out *Error) {
	if n == nil {
		n = defaultNormalizer
	}
	d := &draft{out: newDefault(n.traceID())}
	out = d.out

	defer func() {
		if r := recover(); r != nil {
			n.fail(out, r)
		}
	}()

	if err := n.extract(d, input); err != nil {
		n.fail(out, err)
		return out
	}

	out.Code = DefaultCode
	if c, err := strconv.Atoi(d.code); err == nil && c != 0 {
		out.Code = c
	}
	return out
}

func (n *Normalizer) extract(d *draft, input any) error {
	switch Classify(input) {
	case KindEmpty:
		return nil
	case KindStatusError:
		return n.extractStatus(d, input)
	case KindGeneric:
		return extractGeneric(d, input)
	case KindString:
		switch s := input.(type) {
		case string:
			d.out.Message = s
		case []byte:
			d.out.Message = string(s)
		}
	}
	return nil
}

func (n *Normalizer) extractStatus(d *draft, input any) error {
	var src statusSource
	switch v := input.(type) {
	case *StatusError:
		src = fromStatusError(v, n.traceHeader)
	case StatusError:
		src = fromStatusError(&v, n.traceHeader)
	case map[string]any:
		var err error
		if src, err = fromStatusMap(v, n.traceHeader); err != nil {
			return err
		}
	case error:
		var se *StatusError
		if errors.As(v, &se) {
			src = fromStatusError(se, n.traceHeader)
		}
	}

	if src.hasBody && src.body != nil {
		if err := d.apply(shapeOf(parseBody(src.body)), false); err != nil {
			return err
		}
	}

	// The transport status wins over the body's code; a disagreement is
	// kept in the message.
	if status, ok := codeText(src.status); ok {
		switch {
		case d.code == "":
			d.code = status
		case d.code != status:
			d.out.Message = d.code + " - " + d.out.Message
			d.code = status
		}
	}

	// The trace sent with the request beats anything echoed back.
	if trace, ok := text(src.trace, true); ok {
		d.out.TraceID = trace
	}
	return nil
}

// parseBody turns a textual body into JSON, or into {message: text}
// when it is not JSON.
func parseBody(body any) any {
	var raw string
	switch b := body.(type) {
	case string:
		raw = b
	case []byte:
		raw = string(b)
	default:
		return body
	}
	if gjson.Valid(raw) {
		return gjson.Parse(raw).Value()
	}
	return map[string]any{"message": raw}
}

type (
	statusCoder  interface{ StatusCode() int }
	httpStatuser interface{ HTTPStatus() int }
	traceIDer    interface{ TraceID() string }
)

func extractGeneric(d *draft, input any) error {
	switch v := input.(type) {
	case *Error:
		return d.apply(canonicalShape(v), true)
	case Error:
		return d.apply(canonicalShape(&v), true)
	}

	err, isErr := input.(error)
	if isErr {
		var ce *Error
		if errors.As(err, &ce) && ce != nil {
			return d.apply(canonicalShape(ce), true)
		}
	}

	shape := shapeOf(input)
	if isErr {
		if _, ok := text(shape.Message, true); !ok {
			shape.Message = err.Error()
		}
		if _, ok := codeText(shape.Code); !ok {
			var sc statusCoder
			var hs httpStatuser
			switch {
			case errors.As(err, &sc):
				shape.Code = sc.StatusCode()
			case errors.As(err, &hs):
				shape.Code = hs.HTTPStatus()
			}
		}
		if _, ok := text(shape.TraceID, true); !ok {
			var tr traceIDer
			if errors.As(err, &tr) {
				shape.TraceID = tr.TraceID()
			}
		}
	}
	return d.apply(shape, true)
}

func canonicalShape(e *Error) looseShape {
	return looseShape{
		Code:    e.Code,
		Message: e.Message,
		TraceID: e.TraceID,
		Details: e.Details,
	}
}

// apply overwrites the draft with every usable field of shape. With
// scalars set, numeric and boolean messages and trace IDs are accepted.
func (d *draft) apply(shape looseShape, scalars bool) error {
	if c, ok := codeText(shape.Code); ok {
		d.code = c
	}
	if m, ok := text(shape.Message, scalars); ok {
		d.out.Message = m
	}
	if t, ok := text(shape.TraceID, scalars); ok {
		d.out.TraceID = t
	}
	list, ok, err := details(shape.Details)
	if err != nil {
		return err
	}
	if ok {
		d.out.Details = list
	}
	return nil
}

// traceID returns a non-empty identifier even when the configured
// generator misbehaves.
func (n *Normalizer) traceID() (id string) {
	defer func() {
		if r := recover(); r != nil {
			id = uuid.NewString()
		}
	}()
	if id = n.newID(); id == "" {
		id = uuid.NewString()
	}
	return id
}

// fail rewrites out as an internal formatter failure.
func (n *Normalizer) fail(out *Error, cause any) {
	msg := failureMessage(cause)
	out.Code = DefaultCode
	out.Message = msg
	out.Details = []string{locationMarker, msg}
	if n.logger != nil {
		n.logger.Warn("error normalization failed",
			slog.String("error", msg),
			slog.String("trace_id", out.TraceID),
		)
	}
}

func failureMessage(cause any) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = formatterMessage
		}
	}()
	switch c := cause.(type) {
	case error:
		msg = c.Error()
	case string:
		msg = c
	case fmt.Stringer:
		msg = c.String()
	}
	if msg == "" {
		msg = formatterMessage
	}
	return msg
}
