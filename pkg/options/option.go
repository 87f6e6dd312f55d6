// Package options declares typed connector options and validates raw
// catalog key/value pairs against them.
//
// A factory declares its options once, usually as package-level values:
//
//	var Bounded = options.Bool("bounded").WithDefault(false)
//
// and lists them through RequiredOptions/OptionalOptions. Validate turns the
// raw string map supplied by a catalog into a Resolved set of typed values,
// from which connectors read with Get:
//
//	bounded := options.Get(resolved, Bounded)
package options

import (
	"fmt"
	"strings"
	"time"
)

// Type is the declared value type of an option.
type Type string

const (
	TypeBoolean  Type = "BOOLEAN"
	TypeString   Type = "STRING"
	TypeInteger  Type = "INTEGER"
	TypeDuration Type = "DURATION"
	TypeEnum     Type = "ENUM"
)

// Key describes one named option. Keys are values; every With* method
// returns a modified copy.
type Key struct {
	name         string
	typ          Type
	enumValues   []string
	defaultValue interface{}
	hasDefault   bool
	description  string
}

// Name returns the option key as it appears in catalog options.
func (k Key) Name() string { return k.name }

// Type returns the declared value type.
func (k Key) Type() Type { return k.typ }

// Description returns the human-readable description, possibly empty.
func (k Key) Description() string { return k.description }

// Default returns the declared default and whether one exists.
func (k Key) Default() (interface{}, bool) { return k.defaultValue, k.hasDefault }

// DefaultString renders the default the way it would be written in catalog
// options, or "" when there is none.
func (k Key) DefaultString() string {
	if !k.hasDefault {
		return ""
	}
	return formatValue(k.defaultValue)
}

// EnumValues returns the accepted values of an enum option.
func (k Key) EnumValues() []string {
	return append([]string(nil), k.enumValues...)
}

// TypeName renders the type for diagnostics, listing accepted values for enums.
func (k Key) TypeName() string {
	if k.typ == TypeEnum {
		return fmt.Sprintf("%s[%s]", k.typ, strings.Join(k.enumValues, ", "))
	}
	return string(k.typ)
}

// WithDescription returns a copy of k carrying the description.
func (k Key) WithDescription(description string) Key {
	k.description = description
	return k
}

func (k Key) String() string {
	if k.hasDefault {
		return fmt.Sprintf("%s (%s, default %v)", k.name, k.TypeName(), formatValue(k.defaultValue))
	}
	return fmt.Sprintf("%s (%s)", k.name, k.TypeName())
}

// Option is a Key whose values are known to be of type T.
type Option[T any] struct {
	key Key
}

// Key returns the untyped descriptor used for declaration and validation.
func (o Option[T]) Key() Key { return o.key }

// Name returns the option key.
func (o Option[T]) Name() string { return o.key.name }

// WithDefault returns a copy of o with the given default value.
func (o Option[T]) WithDefault(v T) Option[T] {
	o.key.defaultValue = v
	o.key.hasDefault = true
	return o
}

// WithDescription returns a copy of o with the given description.
func (o Option[T]) WithDescription(description string) Option[T] {
	o.key = o.key.WithDescription(description)
	return o
}

func (o Option[T]) String() string { return o.key.String() }

// Bool declares a boolean option.
func Bool(name string) Option[bool] {
	return Option[bool]{key: Key{name: name, typ: TypeBoolean}}
}

// String declares a string option.
func String(name string) Option[string] {
	return Option[string]{key: Key{name: name, typ: TypeString}}
}

// Int declares an integer option.
func Int(name string) Option[int64] {
	return Option[int64]{key: Key{name: name, typ: TypeInteger}}
}

// Duration declares a duration option.
func Duration(name string) Option[time.Duration] {
	return Option[time.Duration]{key: Key{name: name, typ: TypeDuration}}
}

// Enum declares a string option restricted to the given values.
func Enum(name string, values ...string) Option[string] {
	return Option[string]{key: Key{name: name, typ: TypeEnum, enumValues: append([]string(nil), values...)}}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case time.Duration:
		return val.String()
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
