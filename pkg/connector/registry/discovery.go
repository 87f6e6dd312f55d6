package registry

import (
	"iter"
	"sync"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
)

var (
	discoveryMu sync.Mutex
	discovered  []core.Factory
)

// Provide makes factory discoverable. Connector packages call it from init,
// so importing a connector package is enough to make it available to Default.
func Provide(factory core.Factory) {
	discoveryMu.Lock()
	defer discoveryMu.Unlock()
	discovered = append(discovered, factory)
}

// Discovered yields every provided factory keyed by its identifier, in the
// order they were provided.
func Discovered() iter.Seq2[string, core.Factory] {
	discoveryMu.Lock()
	snapshot := append([]core.Factory(nil), discovered...)
	discoveryMu.Unlock()

	return func(yield func(string, core.Factory) bool) {
		for _, f := range snapshot {
			if !yield(f.FactoryIdentifier(), f) {
				return
			}
		}
	}
}

// Default builds a registry from every discovered factory.
func Default() (*Registry, error) {
	b := NewBuilder()
	if err := b.RegisterAll(Discovered()); err != nil {
		return nil, err
	}
	return b.Build(), nil
}
