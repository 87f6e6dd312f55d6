// Package tablefactory binds catalog tables to the connectors that read and
// write them.
//
// A connector is a factory registered under an identifier. Given a table
// definition, tablefactory resolves the factory named by the table's
// "connector" option, validates the remaining options against the keys the
// factory declares, and asks the factory for a table source or sink. A
// planner then queries the source's changelog mode and requests a runtime
// provider for streaming or batch execution.
//
// # Architecture
//
//   - pkg/options: typed option keys, option sets and validation
//   - pkg/connector/core: factory, source and sink contracts, changelog modes
//   - pkg/connector/registry: identifier to factory registry and discovery
//   - pkg/connector/factory: table source and sink creation, planning lifecycle
//   - pkg/connector/sources, pkg/connector/destinations: built-in connectors
//   - pkg/config: catalogs and process settings
//
// # Quick Start
//
//	reg, err := registry.Default()
//	if err != nil {
//		return err
//	}
//	planned, err := factory.CreateTableSource(ctx, reg, factory.Table{
//		Name:    "orders",
//		Options: map[string]string{"connector": "source-only", "bounded": "true"},
//	})
//	if err != nil {
//		return err
//	}
//	if _, err := planned.Describe(); err != nil {
//		return err
//	}
//	provider, err := planned.Provision(core.ScanContext{Mode: core.RuntimeModeBatch})
//
// Connector packages register themselves from init, so the binary only needs
// to import them. Importing pkg/connector/sources and
// pkg/connector/destinations links every built-in connector.
//
// # Command Line
//
//	tablefactory list
//	tablefactory describe kafka
//	tablefactory validate --catalog catalog.yaml --mode batch
package tablefactory
