// Package filter holds the translation input: a flat mapping of named,
// optionally typed parameters. Every parameter is optional; wrong shapes
// degrade to zero values or single-element lists instead of failing.
package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Request is an immutable filter/sort request. The constructor copies the
// caller's map and accessors never write, so one Request may serve any
// number of concurrent compilations.
type Request struct {
	params map[string]any
}

// New builds a Request from a parameter map. The top-level map is copied;
// nested values are treated as read-only.
func New(params map[string]any) Request {
	copied := make(map[string]any, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return Request{params: copied}
}

// Present reports whether name carries a value. A nil value counts as
// absent.
func (r Request) Present(name string) bool {
	v, ok := r.params[name]
	return ok && v != nil
}

// Raw returns the untyped value for name, or nil when absent.
func (r Request) Raw(name string) any { return r.params[name] }

// Empty reports whether name is absent or holds one of the empty shapes:
// nil, "", "0", a zero number, false, or a zero-length list or map.
func (r Request) Empty(name string) bool {
	v, ok := r.params[name]
	if !ok || v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == "" || val == "0"
	case bool:
		return !val
	case int:
		return val == 0
	case int32:
		return val == 0
	case int64:
		return val == 0
	case float32:
		return val == 0
	case float64:
		return val == 0
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case []int:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

// NotBlank reports whether name is present with any value other than the
// empty string. Zero numbers and "0" count as values here, unlike Empty.
func (r Request) NotBlank(name string) bool {
	v, ok := r.params[name]
	if !ok || v == nil {
		return false
	}
	s, isString := v.(string)
	return !isString || s != ""
}

// ZeroNumber reports whether name holds a numeric zero. This distinguishes
// an explicit zero from an absent value, which Empty cannot.
func (r Request) ZeroNumber(name string) bool {
	switch val := r.params[name].(type) {
	case int:
		return val == 0
	case int32:
		return val == 0
	case int64:
		return val == 0
	case float32:
		return val == 0
	case float64:
		return val == 0
	}
	return false
}

// Int coerces the value for name to an integer: integer kinds pass
// through, floats truncate, numeric strings parse, anything else is 0.
func (r Request) Int(name string) int {
	return coerceInt(r.params[name])
}

// String coerces the value for name to a string.
func (r Request) String(name string) string {
	return coerceString(r.params[name])
}

// Strings coerces the value for name to a string list: slices convert
// elementwise, a bare string splits on commas and whitespace, any other
// scalar becomes a one-element list. Elements are trimmed and empty ones
// dropped.
func (r Request) Strings(name string) []string {
	elems := r.List(name)
	if len(elems) == 0 {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		s := strings.TrimSpace(coerceString(e))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Ints coerces the value for name to a list of record identifiers: each
// element coerces like Int, negatives become their absolute value, and
// unparsable elements become 0.
func (r Request) Ints(name string) []int {
	elems := r.List(name)
	if len(elems) == 0 {
		return nil
	}
	out := make([]int, 0, len(elems))
	for _, e := range elems {
		n := coerceInt(e)
		if n < 0 {
			n = -n
		}
		out = append(out, n)
	}
	return out
}

// List returns the raw list form of the value for name: slices pass
// through, a bare string splits on commas and whitespace, any other value
// becomes a one-element list. Absent or nil yields nil.
func (r Request) List(name string) []any {
	v, ok := r.params[name]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case []any:
		return val
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out
	case string:
		toks := splitList(val)
		out := make([]any, len(toks))
		for i, tok := range toks {
			out[i] = tok
		}
		return out
	}
	return []any{v}
}

// Map returns the value for name as a map when it is one, nil otherwise.
func (r Request) Map(name string) map[string]any {
	m, _ := r.params[name].(map[string]any)
	return m
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int32:
		return int(val)
	case int64:
		return int(val)
	case float32:
		return int(val)
	case float64:
		return int(val)
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	}
	return 0
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return coerceString(float64(val))
	case float64:
		// JSON numbers arrive as float64; keep integral values clean.
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return ""
	}
	return fmt.Sprintf("%v", v)
}
