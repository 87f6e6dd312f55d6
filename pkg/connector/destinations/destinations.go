// Package destinations links every built-in sink factory into the binary.
package destinations

import (
	_ "github.com/ajitpratap0/tablefactory/pkg/connector/destinations/mock"
)
