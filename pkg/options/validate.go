package options

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ajitpratap0/tablefactory/pkg/errors"
)

// Resolved is the validated, typed view of a table's options. It is
// immutable once returned by Validate.
type Resolved struct {
	values map[string]interface{}
}

// Validate checks supplied against declared and returns typed values.
//
// Keys are visited in sorted order, so for a given input the same key is
// always reported. Unknown keys are reported before missing required keys,
// and both before parse failures. Defaults fill in absent optional keys only.
func Validate(declared *Set, supplied map[string]string) (*Resolved, error) {
	if declared == nil {
		declared = NewSet()
	}

	suppliedNames := make([]string, 0, len(supplied))
	for name := range supplied {
		suppliedNames = append(suppliedNames, name)
	}
	sort.Strings(suppliedNames)

	for _, name := range suppliedNames {
		if _, ok := declared.Lookup(name); !ok {
			return nil, errors.UnknownOption(name, declared.Names())
		}
	}

	for _, key := range declared.RequiredKeys() {
		if _, ok := supplied[key.name]; !ok {
			return nil, errors.MissingRequiredOption(key.name)
		}
	}

	values := make(map[string]interface{}, declared.Len())
	for _, name := range suppliedNames {
		key, _ := declared.Lookup(name)
		v, err := parse(key, supplied[name])
		if err != nil {
			return nil, err
		}
		values[name] = v
	}

	for _, key := range declared.OptionalKeys() {
		if _, ok := values[key.name]; ok {
			continue
		}
		if def, ok := key.Default(); ok {
			values[key.name] = def
		}
	}

	return &Resolved{values: values}, nil
}

// Empty returns a Resolved with no values.
func Empty() *Resolved {
	return &Resolved{values: map[string]interface{}{}}
}

// Get returns the value of opt, or its zero value when absent.
func Get[T any](r *Resolved, opt Option[T]) T {
	v, _ := Lookup(r, opt)
	return v
}

// Lookup returns the value of opt and whether it is present.
func Lookup[T any](r *Resolved, opt Option[T]) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	raw, ok := r.values[opt.key.name]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// Value returns the untyped value stored under name.
func (r *Resolved) Value(name string) (interface{}, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Contains reports whether name has a value.
func (r *Resolved) Contains(name string) bool {
	_, ok := r.values[name]
	return ok
}

// GetBool returns a boolean value, false when absent or of another type.
func (r *Resolved) GetBool(name string) bool {
	v, _ := r.values[name].(bool)
	return v
}

// GetString returns a string or enum value.
func (r *Resolved) GetString(name string) string {
	v, _ := r.values[name].(string)
	return v
}

// GetInt returns an integer value.
func (r *Resolved) GetInt(name string) int64 {
	v, _ := r.values[name].(int64)
	return v
}

// GetDuration returns a duration value.
func (r *Resolved) GetDuration(name string) time.Duration {
	v, _ := r.values[name].(time.Duration)
	return v
}

// Keys returns the names with values, sorted.
func (r *Resolved) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of values.
func (r *Resolved) Len() int {
	return len(r.values)
}

// AsMap returns a copy of the values.
func (r *Resolved) AsMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both hold the same keys and values.
func (r *Resolved) Equal(other *Resolved) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.values) != len(other.values) {
		return false
	}
	for k, v := range r.values {
		ov, ok := other.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

func (r *Resolved) String() string {
	parts := make([]string, 0, len(r.values))
	for _, k := range r.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %s", k, formatValue(r.values[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
