package errnormalize

import (
	"errors"
	"math"
	"reflect"
)

// Kind is the classification of a value handed to Normalize.
type Kind int

const (
	// KindEmpty is a falsy value: nil, "", false, zero, NaN or a nil
	// pointer, map, slice, func, chan or interface.
	KindEmpty Kind = iota
	// KindString is a non-empty string or []byte.
	KindString
	// KindStatusError is an HTTP client error for a non-2xx/3xx response.
	KindStatusError
	// KindGeneric is anything else: Go errors, canonical errors, objects.
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindStatusError:
		return "status_error"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Classify reports which extraction path Normalize takes for input.
func Classify(input any) Kind {
	if isFalsy(input) {
		return KindEmpty
	}
	switch v := input.(type) {
	case string, []byte:
		return KindString
	case *StatusError, StatusError:
		return KindStatusError
	case map[string]any:
		if name, ok := v["name"].(string); ok && name == StatusCodeErrorName {
			return KindStatusError
		}
	case error:
		var se *StatusError
		if errors.As(v, &se) && se != nil {
			return KindStatusError
		}
	}
	return KindGeneric
}

// isFalsy reports whether v carries no information at all.
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice:
		if rv.IsNil() {
			return true
		}
		// []byte stands in for a string, so an empty one is "".
		return rv.Type().Elem().Kind() == reflect.Uint8 && rv.Len() == 0
	case reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	}
	return false
}
