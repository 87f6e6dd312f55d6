// Package connector is the root of the connector framework. It holds no code
// of its own.
//
// # Architecture Overview
//
//   - core: the contracts every connector implements. A Factory declares its
//     option keys; SourceFactory and SinkFactory create TableSource and
//     TableSink instances from a validated Context. ScanTableSource adds the
//     changelog mode and the runtime provider a planner needs.
//
//   - registry: maps identifiers to factories. A Builder collects factories,
//     rejecting duplicates, and Build freezes them into a Registry that is
//     safe for concurrent lookups. Connector packages call registry.Provide
//     from init; registry.Default builds a registry from all of them.
//
//   - factory: CreateTableSource and CreateTableSink turn a catalog table into
//     a connector instance. PlannedSource enforces the planning order: the
//     changelog mode is described before a runtime provider is requested.
//
//   - sources, destinations: built-in connectors. The mock connectors carry no
//     storage system; kafka, postgres-cdc and mysql translate their options
//     into driver configurations without connecting anywhere.
//
// # Writing a Connector
//
//	var Path = options.String("path").WithDescription("Directory to read.")
//
//	type Factory struct{}
//
//	func (f *Factory) FactoryIdentifier() string      { return "files" }
//	func (f *Factory) RequiredOptions() []options.Key { return []options.Key{Path.Key()} }
//	func (f *Factory) OptionalOptions() []options.Key { return nil }
//
//	func (f *Factory) CreateSource(ctx *core.Context) (core.TableSource, error) {
//		return newSource(options.Get(ctx.Options, Path)), nil
//	}
//
//	func init() {
//		registry.Provide(&Factory{})
//	}
//
// Options reach CreateSource already validated: unknown keys, missing required
// keys and unparsable values are rejected before the factory is called.
package connector
