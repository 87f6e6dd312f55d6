// Package sources links every built-in source factory into the binary.
// Importing it for side effects makes the factories discoverable through
// registry.Default.
package sources

import (
	_ "github.com/ajitpratap0/tablefactory/pkg/connector/sources/kafka"
	_ "github.com/ajitpratap0/tablefactory/pkg/connector/sources/mock"
	_ "github.com/ajitpratap0/tablefactory/pkg/connector/sources/mysql"
	_ "github.com/ajitpratap0/tablefactory/pkg/connector/sources/postgres_cdc"
)
