package registry

import (
	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/options"
)

// OptionInfo describes one declared option.
type OptionInfo struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// ConnectorInfo provides information about a registered factory
type ConnectorInfo struct {
	Identifier   string       `json:"identifier"`
	Capabilities []string     `json:"capabilities"`
	Options      []OptionInfo `json:"options"`
}

// Info describes the factory registered under identifier.
func (r *Registry) Info(identifier string) (*ConnectorInfo, error) {
	f, err := r.Resolve(identifier)
	if err != nil {
		return nil, err
	}
	return describe(f)
}

// Catalog describes every registered factory in identifier order.
func (r *Registry) Catalog() ([]*ConnectorInfo, error) {
	infos := make([]*ConnectorInfo, 0, r.Len())
	for _, f := range r.All() {
		info, err := describe(f)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func describe(f core.Factory) (*ConnectorInfo, error) {
	set, err := options.SetOf(f)
	if err != nil {
		return nil, err
	}

	info := &ConnectorInfo{
		Identifier:   f.FactoryIdentifier(),
		Capabilities: capabilityNames(f),
	}
	for _, name := range set.Names() {
		key, _ := set.Lookup(name)
		info.Options = append(info.Options, OptionInfo{
			Key:         name,
			Type:        key.TypeName(),
			Required:    set.IsRequired(name),
			Default:     key.DefaultString(),
			Description: key.Description(),
		})
	}
	return info, nil
}
