package errnormalize

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// looseShape is a best-effort view of an error-like object. Every field
// is optional; nil means absent.
type looseShape struct {
	Code    any `mapstructure:"code"`
	Message any `mapstructure:"message"`
	TraceID any `mapstructure:"trace_id"`
	Details any `mapstructure:"details"`
}

// decodeExact decodes a string-keyed map into out. Keys match field tags
// exactly; "Code" is not "code".
func decodeExact(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:    out,
		TagName:   "mapstructure",
		MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// shapeOf builds a looseShape from maps directly and from other values
// through their JSON encoding. Values that are not objects yield an
// empty shape.
func shapeOf(v any) looseShape {
	var shape looseShape
	obj, ok := asObject(v)
	if !ok {
		return shape
	}
	if err := decodeExact(obj, &shape); err != nil {
		return looseShape{}
	}
	return shape
}

var stringType = reflect.TypeOf("")

// asObject returns v as a string-keyed map when it is one, or when its
// JSON encoding is a JSON object.
func asObject(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		if rv.Type().Key() == stringType {
			return rv.Interface(), true
		}
		fallthrough
	case reflect.Struct:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil || m == nil {
			return nil, false
		}
		return m, true
	}
	return nil, false
}

// codeText returns the text form of a usable code: exactly three
// decimal digits, not all zero.
func codeText(v any) (string, bool) {
	var s string
	switch c := v.(type) {
	case nil:
		return "", false
	case json.Number:
		s = c.String()
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String:
			s = rv.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			s = strconv.FormatInt(rv.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			s = strconv.FormatUint(rv.Uint(), 10)
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return "", false
			}
			s = strconv.FormatFloat(f, 'f', -1, 64)
		default:
			return "", false
		}
	}
	if len(s) != 3 || s == "000" {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", false
		}
	}
	return s, true
}

// text returns v as a non-empty string. Strings always qualify; with
// scalars set, truthy numbers and booleans qualify in their text form.
func text(v any, scalars bool) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		s := rv.String()
		return s, s != ""
	}
	if !scalars || isFalsy(v) {
		return "", false
	}
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v), true
	}
	return "", false
}

// details filters an array of detail candidates. Strings pass through,
// objects and arrays become their JSON text, everything else is dropped.
// ok reports whether v was an array at all.
func details(v any) (out []string, ok bool, err error) {
	if v == nil {
		return nil, false, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false, nil
		}
	case reflect.Array:
	default:
		return nil, false, nil
	}
	out = make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		entry, keep, err := detail(rv.Index(i))
		if err != nil {
			return nil, true, err
		}
		if keep {
			out = append(out, entry)
		}
	}
	return out, true, nil
}

func detail(rv reflect.Value) (string, bool, error) {
	orig := rv
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false, nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return "", false, nil
		}
	case reflect.Array, reflect.Struct:
	default:
		return "", false, nil
	}
	data, err := json.Marshal(orig.Interface())
	if err != nil {
		return "", false, fmt.Errorf("encode detail: %w", err)
	}
	return string(data), true, nil
}
