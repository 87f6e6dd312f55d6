// Package registry maps factory identifiers to connector factories.
//
// Registration happens once, through a Builder, while the process starts.
// Build is the initialization barrier: it returns a Registry whose contents
// never change, so any number of planning goroutines may resolve from it
// without locking.
package registry

import (
	"iter"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/logger"
	"github.com/ajitpratap0/tablefactory/pkg/metrics"
	"github.com/ajitpratap0/tablefactory/pkg/options"
)

// unknownIdentifier labels resolution metrics for lookups of identifiers
// that are not registered, keeping label cardinality bounded.
const unknownIdentifier = "unknown"

// Builder collects factories before the registry is sealed. A Builder is
// not safe for concurrent use.
type Builder struct {
	factories map[string]core.Factory
	built     bool
	logger    *zap.Logger
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		factories: make(map[string]core.Factory),
		logger:    logger.Component("factory_registry"),
	}
}

// Register adds factory under identifier. The identifier must match
// factory.FactoryIdentifier() and the factory's declared options must be
// free of duplicates.
func (b *Builder) Register(identifier string, factory core.Factory) error {
	if b.built {
		return errors.New(errors.ErrorTypeLifecycle, "registry is already built").
			WithDetail(errors.DetailIdentifier, identifier)
	}
	if identifier == "" {
		return errors.New(errors.ErrorTypeConfig, "factory identifier must not be empty")
	}
	if isNil(factory) {
		return errors.Newf(errors.ErrorTypeConfig, "factory '%s' is nil", identifier).
			WithDetail(errors.DetailIdentifier, identifier)
	}
	if got := factory.FactoryIdentifier(); got != identifier {
		return errors.Newf(errors.ErrorTypeConfig, "factory reports identifier '%s' but is registered as '%s'", got, identifier).
			WithDetail(errors.DetailIdentifier, identifier)
	}
	if _, exists := b.factories[identifier]; exists {
		return errors.DuplicateIdentifier(identifier)
	}
	if _, err := options.SetOf(factory); err != nil {
		return errors.Annotate(err, "invalid option declaration for factory '"+identifier+"'").
			WithDetail(errors.DetailIdentifier, identifier)
	}

	b.factories[identifier] = factory
	b.logger.Info("factory registered",
		zap.String("identifier", identifier),
		zap.Strings("capabilities", capabilityNames(factory)))
	return nil
}

// RegisterAll registers every (identifier, factory) pair produced by seq,
// stopping at the first failure.
func (b *Builder) RegisterAll(seq iter.Seq2[string, core.Factory]) error {
	for identifier, factory := range seq {
		if err := b.Register(identifier, factory); err != nil {
			return err
		}
	}
	return nil
}

// Build seals the builder and returns the immutable registry.
func (b *Builder) Build() *Registry {
	b.built = true

	factories := make(map[string]core.Factory, len(b.factories))
	identifiers := make([]string, 0, len(b.factories))
	for id, f := range b.factories {
		factories[id] = f
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)

	metrics.RegisteredFactories.Set(float64(len(factories)))
	b.logger.Info("factory registry built", zap.Int("factories", len(factories)))

	return &Registry{
		factories:   factories,
		identifiers: identifiers,
	}
}

// Registry is a read-only identifier to factory mapping.
type Registry struct {
	factories   map[string]core.Factory
	identifiers []string
}

// Resolve returns the factory registered under identifier
func (r *Registry) Resolve(identifier string) (core.Factory, error) {
	f, ok := r.factories[identifier]
	if !ok {
		metrics.RecordResolution(unknownIdentifier, "any", metrics.StatusFailure)
		return nil, errors.NoSuchFactory(identifier, "table", r.identifiers)
	}
	metrics.RecordResolution(identifier, "any", metrics.StatusSuccess)
	return f, nil
}

// ResolveSource returns the source factory registered under identifier.
// A registered factory that cannot create sources counts as missing.
func (r *Registry) ResolveSource(identifier string) (core.SourceFactory, error) {
	f, ok := r.factories[identifier].(core.SourceFactory)
	if !ok {
		metrics.RecordResolution(r.label(identifier), string(core.CapabilitySource), metrics.StatusFailure)
		return nil, errors.NoSuchFactory(identifier, string(core.CapabilitySource), r.identifiersWith(core.CapabilitySource))
	}
	metrics.RecordResolution(identifier, string(core.CapabilitySource), metrics.StatusSuccess)
	return f, nil
}

// ResolveSink returns the sink factory registered under identifier
func (r *Registry) ResolveSink(identifier string) (core.SinkFactory, error) {
	f, ok := r.factories[identifier].(core.SinkFactory)
	if !ok {
		metrics.RecordResolution(r.label(identifier), string(core.CapabilitySink), metrics.StatusFailure)
		return nil, errors.NoSuchFactory(identifier, string(core.CapabilitySink), r.identifiersWith(core.CapabilitySink))
	}
	metrics.RecordResolution(identifier, string(core.CapabilitySink), metrics.StatusSuccess)
	return f, nil
}

// Has reports whether identifier is registered
func (r *Registry) Has(identifier string) bool {
	_, ok := r.factories[identifier]
	return ok
}

// Identifiers returns every registered identifier, sorted
func (r *Registry) Identifiers() []string {
	return append([]string(nil), r.identifiers...)
}

// Len returns the number of registered factories
func (r *Registry) Len() int {
	return len(r.factories)
}

// All iterates over the factories in identifier order.
func (r *Registry) All() iter.Seq2[string, core.Factory] {
	return func(yield func(string, core.Factory) bool) {
		for _, id := range r.identifiers {
			if !yield(id, r.factories[id]) {
				return
			}
		}
	}
}

func (r *Registry) label(identifier string) string {
	if _, ok := r.factories[identifier]; ok {
		return identifier
	}
	return unknownIdentifier
}

func (r *Registry) identifiersWith(c core.Capability) []string {
	var out []string
	for _, id := range r.identifiers {
		if hasCapability(r.factories[id], c) {
			out = append(out, id)
		}
	}
	return out
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(f core.Factory) bool {
	if f == nil {
		return true
	}
	v := reflect.ValueOf(f)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func hasCapability(f core.Factory, c core.Capability) bool {
	switch c {
	case core.CapabilitySource:
		_, ok := f.(core.SourceFactory)
		return ok
	case core.CapabilitySink:
		_, ok := f.(core.SinkFactory)
		return ok
	default:
		return false
	}
}

func capabilityNames(f core.Factory) []string {
	var out []string
	for _, c := range []core.Capability{core.CapabilitySource, core.CapabilitySink} {
		if hasCapability(f, c) {
			out = append(out, string(c))
		}
	}
	return out
}
