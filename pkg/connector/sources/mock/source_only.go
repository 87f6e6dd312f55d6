// Package mock provides a source-only factory whose sources read nothing.
// It exists to exercise factory discovery, option validation and runtime
// provisioning without a storage system behind it.
package mock

import (
	"fmt"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/connector/registry"
	"github.com/ajitpratap0/tablefactory/pkg/options"
)

// Identifier is the factory identifier of the source-only connector.
const Identifier = "source-only"

// Bounded toggles whether created sources report a finite input.
var Bounded = options.Bool("bounded").
	WithDefault(false).
	WithDescription("Whether the source reports itself as bounded.")

func init() {
	registry.Provide(NewFactory())
}

// Factory creates ScanSources. It cannot create sinks.
type Factory struct{}

// NewFactory creates the source-only factory
func NewFactory() *Factory {
	return &Factory{}
}

// FactoryIdentifier implements core.Factory
func (f *Factory) FactoryIdentifier() string {
	return Identifier
}

// RequiredOptions implements core.Factory
func (f *Factory) RequiredOptions() []options.Key {
	return nil
}

// OptionalOptions implements core.Factory
func (f *Factory) OptionalOptions() []options.Key {
	return []options.Key{Bounded.Key()}
}

// CreateSource implements core.SourceFactory
func (f *Factory) CreateSource(ctx *core.Context) (core.TableSource, error) {
	return &ScanSource{bounded: options.Get(ctx.Options, Bounded)}, nil
}

// ScanSource is an insert-only source with a fixed boundedness.
type ScanSource struct {
	bounded bool
}

// NewScanSource creates a source directly, bypassing option validation.
func NewScanSource(bounded bool) *ScanSource {
	return &ScanSource{bounded: bounded}
}

// Copy implements core.TableSource
func (s *ScanSource) Copy() core.TableSource {
	return &ScanSource{bounded: s.bounded}
}

// SummaryString implements core.TableSource
func (s *ScanSource) SummaryString() string {
	return fmt.Sprintf("MockedScanSource(bounded=%t)", s.bounded)
}

// ChangelogMode implements core.ScanTableSource
func (s *ScanSource) ChangelogMode() core.ChangelogMode {
	return core.InsertOnly()
}

// ScanRuntimeProvider implements core.ScanTableSource. The provider reports
// the configured boundedness whatever mode is requested.
func (s *ScanSource) ScanRuntimeProvider(core.ScanContext) (core.ScanRuntimeProvider, error) {
	bounded := s.bounded
	return core.ScanRuntimeProviderFunc(func() bool { return bounded }), nil
}
