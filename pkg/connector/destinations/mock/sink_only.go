// Package mock provides a sink-only factory whose sinks discard everything.
package mock

import (
	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/connector/registry"
	"github.com/ajitpratap0/tablefactory/pkg/options"
)

// Identifier is the factory identifier of the sink-only connector.
const Identifier = "sink-only"

func init() {
	registry.Provide(NewFactory())
}

// Factory creates DiscardSinks. It cannot create sources.
type Factory struct{}

// NewFactory creates the sink-only factory
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) FactoryIdentifier() string      { return Identifier }
func (f *Factory) RequiredOptions() []options.Key { return nil }
func (f *Factory) OptionalOptions() []options.Key { return nil }

// CreateSink implements core.SinkFactory
func (f *Factory) CreateSink(*core.Context) (core.TableSink, error) {
	return &DiscardSink{}, nil
}

// DiscardSink accepts whatever changelog the query produces.
type DiscardSink struct{}

func (s *DiscardSink) Copy() core.TableSink  { return &DiscardSink{} }
func (s *DiscardSink) SummaryString() string { return "DiscardSink" }

// ChangelogMode implements core.TableSink
func (s *DiscardSink) ChangelogMode(requested core.ChangelogMode) core.ChangelogMode {
	return requested
}
