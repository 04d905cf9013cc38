package runtime

import (
	"fmt"
	"strings"

	"asteria/value"
)

// ArgumentReader implements the overload-resolution facility of spec.md §6:
// a host function describes each overload it accepts as a sequence of
// StartOverload / Required(type) / Optional(type) / EndOverload calls; each
// EndOverload reports whether that overload matched the actual argument
// list, and Matched() returns the values of the most recent overload that
// did. If none match, Signatures() renders a
// human-readable table for the diagnostic message.
type ArgumentReader struct {
	args []value.Value

	signatures []string
	matched    *matchResult

	building   []string
	cursor     int
	ok         bool
}

type matchResult struct {
	values []value.Value
}

// NewArgumentReader wraps a host call's argument values for overload
// matching.
func NewArgumentReader(args []value.Value) *ArgumentReader {
	return &ArgumentReader{args: args}
}

// StartOverload begins describing one candidate overload.
func (r *ArgumentReader) StartOverload() {
	r.building = nil
	r.cursor = 0
	r.ok = true
}

// Required consumes the next argument if it matches typeName, recording
// failure (but continuing to build the signature string) otherwise.
func (r *ArgumentReader) Required(typeName string) value.Value {
	r.building = append(r.building, typeName)
	if !r.ok || r.cursor >= len(r.args) {
		r.ok = false
		return value.Null()
	}
	v := r.args[r.cursor]
	if !typeMatches(v, typeName) {
		r.ok = false
		return value.Null()
	}
	r.cursor++
	return v
}

// Optional consumes the next argument if present and matching, without
// failing the overload when absent.
func (r *ArgumentReader) Optional(typeName string) (value.Value, bool) {
	r.building = append(r.building, typeName+"?")
	if !r.ok || r.cursor >= len(r.args) {
		return value.Null(), false
	}
	v := r.args[r.cursor]
	if !typeMatches(v, typeName) {
		return value.Null(), false
	}
	r.cursor++
	return v, true
}

// EndOverload finishes the current candidate: it succeeds only if every
// Required/Optional call matched and no trailing arguments remain. On
// success the consumed values are retained and returned by Matched().
func (r *ArgumentReader) EndOverload() bool {
	r.signatures = append(r.signatures, "("+strings.Join(r.building, ", ")+")")
	if r.ok && r.cursor == len(r.args) {
		r.matched = &matchResult{values: append([]value.Value{}, r.args[:r.cursor]...)}
		return true
	}
	return false
}

// Matched reports whether any overload has matched so far, and its
// argument values in declared order.
func (r *ArgumentReader) Matched() ([]value.Value, bool) {
	if r.matched == nil {
		return nil, false
	}
	return r.matched.values, true
}

// Signatures renders every attempted overload's signature, for the
// "no overload matched" diagnostic message.
func (r *ArgumentReader) Signatures() []string { return r.signatures }

// NoMatchError builds the diagnostic exception payload when no overload of
// a host function matches the supplied arguments.
func (r *ArgumentReader) NoMatchError(funcName string) string {
	return fmt.Sprintf("no overload of %s matches the given arguments; candidates: %s",
		funcName, strings.Join(r.Signatures(), ", "))
}

func typeMatches(v value.Value, typeName string) bool {
	switch typeName {
	case "any":
		return true
	case "number":
		return v.IsNumeric()
	default:
		return v.Type().String() == typeName
	}
}
