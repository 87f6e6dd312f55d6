package config

import (
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/schema"
)

// Table kinds
const (
	KindSource = "source"
	KindSink   = "sink"
)

// Catalog is a set of table definitions.
type Catalog struct {
	Tables []TableDefinition `yaml:"tables" json:"tables"`
}

// TableDefinition describes one catalog table. An empty Kind means source.
type TableDefinition struct {
	Name    string            `yaml:"name" json:"name"`
	Kind    string            `yaml:"kind,omitempty" json:"kind,omitempty"`
	Options map[string]string `yaml:"options" json:"options"`
	Schema  *schema.Schema    `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// IsSink reports whether the table is written to
func (t TableDefinition) IsSink() bool {
	return t.Kind == KindSink
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	var c Catalog
	if err := Load(path, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Annotate(err, "invalid catalog").WithDetail("file", path)
	}
	return &c, nil
}

// Validate checks structural rules only. Connector options are checked when
// the tables are bound to factories.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Tables))
	for i, t := range c.Tables {
		if t.Name == "" {
			return errors.Newf(errors.ErrorTypeConfig, "table #%d has no name", i+1)
		}
		if _, dup := seen[t.Name]; dup {
			return errors.Newf(errors.ErrorTypeConfig, "table '%s' is defined more than once", t.Name).
				WithDetail(errors.DetailObject, t.Name)
		}
		seen[t.Name] = struct{}{}

		switch t.Kind {
		case "", KindSource, KindSink:
		default:
			return errors.Newf(errors.ErrorTypeConfig, "table '%s' has unknown kind '%s'", t.Name, t.Kind).
				WithDetail(errors.DetailObject, t.Name)
		}
	}
	return nil
}

// Table returns the definition named name.
func (c *Catalog) Table(name string) (TableDefinition, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableDefinition{}, false
}
