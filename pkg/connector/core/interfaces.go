package core

import (
	"github.com/ajitpratap0/tablefactory/pkg/options"
	"github.com/ajitpratap0/tablefactory/pkg/schema"
)

// Capability names the role a factory is resolved for.
type Capability string

const (
	CapabilitySource Capability = "source"
	CapabilitySink   Capability = "sink"
)

// ConnectorOption is the catalog option that names the factory identifier.
// It is consumed during resolution and never reaches option validation.
const ConnectorOption = "connector"

// RuntimeMode is the execution mode the planner compiles for.
type RuntimeMode string

const (
	RuntimeModeStreaming RuntimeMode = "streaming"
	RuntimeModeBatch     RuntimeMode = "batch"
)

// Context is what a factory receives when asked to create a table source or sink.
type Context struct {
	// Identifier is the factory identifier the table was resolved with.
	Identifier string
	// ObjectName is the catalog name of the table.
	ObjectName string
	// Options are the validated options.
	Options *options.Resolved
	// RawOptions are the catalog options as supplied, minus the connector key.
	RawOptions map[string]string
	// Schema is the resolved table schema.
	Schema *schema.Schema
}

// Factory is the part every connector factory shares, whatever it creates.
type Factory interface {
	// FactoryIdentifier returns the identifier the factory is registered under.
	FactoryIdentifier() string
	// RequiredOptions lists options that must be supplied.
	RequiredOptions() []options.Key
	// OptionalOptions lists options that may be supplied.
	OptionalOptions() []options.Key
}

// SourceFactory creates table sources. CreateSource must not perform I/O.
type SourceFactory interface {
	Factory
	CreateSource(ctx *Context) (TableSource, error)
}

// SinkFactory creates table sinks. CreateSink must not perform I/O.
type SinkFactory interface {
	Factory
	CreateSink(ctx *Context) (TableSink, error)
}

// TableSource is a source bound to one table's options.
type TableSource interface {
	// Copy returns an independently owned clone with equal configuration.
	Copy() TableSource
	// SummaryString describes the source in plans and logs.
	SummaryString() string
}

// ScanContext is passed to ScanRuntimeProvider.
type ScanContext struct {
	Mode RuntimeMode
}

// ScanRuntimeProvider is handed to the execution engine, which uses it to read.
type ScanRuntimeProvider interface {
	IsBounded() bool
}

// ScanTableSource reads a table by scanning it.
type ScanTableSource interface {
	TableSource
	// ChangelogMode is pure and stable for the lifetime of the source.
	ChangelogMode() ChangelogMode
	ScanRuntimeProvider(ctx ScanContext) (ScanRuntimeProvider, error)
}

// TableSink is a sink bound to one table's options.
type TableSink interface {
	Copy() TableSink
	SummaryString() string
	// ChangelogMode returns the row kinds the sink accepts given what the
	// upstream query produces.
	ChangelogMode(requested ChangelogMode) ChangelogMode
}

// ScanRuntimeProviderFunc adapts a boundedness function to ScanRuntimeProvider.
type ScanRuntimeProviderFunc func() bool

// IsBounded implements ScanRuntimeProvider.
func (f ScanRuntimeProviderFunc) IsBounded() bool {
	return f()
}
