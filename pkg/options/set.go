package options

import (
	"sort"

	"github.com/ajitpratap0/tablefactory/pkg/errors"
)

// Declarer is anything that declares required and optional options.
// Every connector factory satisfies it.
type Declarer interface {
	RequiredOptions() []Key
	OptionalOptions() []Key
}

// Set holds the options a factory declares. Required and optional keys
// never overlap.
type Set struct {
	keys     map[string]Key
	required map[string]bool
}

// NewSet creates an empty option set.
func NewSet() *Set {
	return &Set{
		keys:     make(map[string]Key),
		required: make(map[string]bool),
	}
}

// SetOf builds the option set declared by d.
func SetOf(d Declarer) (*Set, error) {
	s := NewSet()
	if err := s.Required(d.RequiredOptions()...); err != nil {
		return nil, err
	}
	if err := s.Optional(d.OptionalOptions()...); err != nil {
		return nil, err
	}
	return s, nil
}

// Declare adds key to the set as a required or optional option.
func (s *Set) Declare(required bool, key Key) error {
	if key.name == "" {
		return errors.New(errors.ErrorTypeConfig, "option key must not be empty")
	}
	if _, exists := s.keys[key.name]; exists {
		return errors.DuplicateOption(key.name)
	}
	if key.typ == TypeEnum {
		if len(key.enumValues) == 0 {
			return errors.Newf(errors.ErrorTypeConfig, "enum option '%s' declares no values", key.name).
				WithDetail(errors.DetailKey, key.name)
		}
		if key.hasDefault && !contains(key.enumValues, key.defaultValue.(string)) {
			return errors.Newf(errors.ErrorTypeConfig, "default '%v' of enum option '%s' is not one of its values",
				key.defaultValue, key.name).
				WithDetail(errors.DetailKey, key.name)
		}
	}

	s.keys[key.name] = key
	if required {
		s.required[key.name] = true
	}
	return nil
}

// Required declares keys as required options.
func (s *Set) Required(keys ...Key) error {
	for _, k := range keys {
		if err := s.Declare(true, k); err != nil {
			return err
		}
	}
	return nil
}

// Optional declares keys as optional options.
func (s *Set) Optional(keys ...Key) error {
	for _, k := range keys {
		if err := s.Declare(false, k); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the declared key with the given name.
func (s *Set) Lookup(name string) (Key, bool) {
	k, ok := s.keys[name]
	return k, ok
}

// IsRequired reports whether name is declared as required.
func (s *Set) IsRequired(name string) bool {
	return s.required[name]
}

// Len returns the number of declared keys.
func (s *Set) Len() int {
	return len(s.keys)
}

// Names returns every declared key name in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.keys))
	for name := range s.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequiredKeys returns the required keys sorted by name.
func (s *Set) RequiredKeys() []Key {
	return s.filter(true)
}

// OptionalKeys returns the optional keys sorted by name.
func (s *Set) OptionalKeys() []Key {
	return s.filter(false)
}

func (s *Set) filter(required bool) []Key {
	var out []Key
	for _, name := range s.Names() {
		if s.required[name] == required {
			out = append(out, s.keys[name])
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
