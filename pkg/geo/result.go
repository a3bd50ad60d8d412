package geo

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of a single tool invocation. It is either
// success-shaped (Data holds an object or a list) or failure-shaped
// (a message plus optional detail), never both. Callers branch on
// Failed() instead of probing for an "error" key.
type Result struct {
	data   any
	errMsg string
	detail any
}

// OK wraps successful tool output. data is typically a map[string]any
// or a []any, matching what the upstream adapter produced.
func OK(data any) Result {
	return Result{data: data}
}

// Fail builds a failure result with a plain message.
func Fail(msg string) Result {
	return Result{errMsg: msg}
}

// Failf builds a failure result from a format string.
func Failf(format string, args ...any) Result {
	return Result{errMsg: fmt.Sprintf(format, args...)}
}

// FailDetail builds a failure result carrying extra diagnostic payload,
// e.g. an upstream HTTP body.
func FailDetail(msg string, detail any) Result {
	return Result{errMsg: msg, detail: detail}
}

// Failed reports whether the result is failure-shaped.
func (r Result) Failed() bool { return r.errMsg != "" }

// Error returns the failure message, empty for successes.
func (r Result) Error() string { return r.errMsg }

// Detail returns the optional failure detail.
func (r Result) Detail() any { return r.detail }

// Data returns the success payload, nil for failures.
func (r Result) Data() any {
	if r.Failed() {
		return nil
	}
	return r.data
}

// Field looks up a key in an object-shaped success payload.
func (r Result) Field(key string) (any, bool) {
	m, ok := r.data.(map[string]any)
	if !ok || r.Failed() {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// Value renders the wire representation: the success payload as-is, or a
// map with "error" (and optionally "detail") keys. This is the shape every
// provider sees and the shape the original tool contract promises.
func (r Result) Value() any {
	if !r.Failed() {
		if r.data == nil {
			return map[string]any{}
		}
		return r.data
	}
	m := map[string]any{"error": r.errMsg}
	if r.detail != nil {
		m["detail"] = r.detail
	}
	return m
}

// String renders the wire representation as compact JSON, falling back to
// fmt formatting if the payload is not serializable.
func (r Result) String() string {
	b, err := json.Marshal(r.Value())
	if err != nil {
		return fmt.Sprint(r.Value())
	}
	return string(b)
}

// MarshalJSON serializes the wire representation.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value())
}

// Augment sets extra keys on an object-shaped success payload. Failures
// and list payloads are returned unchanged.
func (r Result) Augment(extra map[string]any) Result {
	if r.Failed() {
		return r
	}
	m, ok := r.data.(map[string]any)
	if !ok {
		return r
	}
	out := make(map[string]any, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return Result{data: out}
}
