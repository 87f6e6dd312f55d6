package factory

import (
	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
)

// State is the planning state of a source.
type State int

const (
	// StateUnbound: created, nothing queried yet.
	StateUnbound State = iota
	// StateDescribed: changelog mode queried.
	StateDescribed
	// StateProvisioned: runtime provider handed out. Terminal for planning.
	StateProvisioned
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateDescribed:
		return "described"
	case StateProvisioned:
		return "provisioned"
	default:
		return "unknown"
	}
}

// PlannedSource tracks one source through a planning pass. It belongs to
// the planning step that created it and is not safe for concurrent use.
type PlannedSource struct {
	identifier string
	objectName string
	source     core.TableSource
	state      State

	mode         core.ChangelogMode
	provider     core.ScanRuntimeProvider
	providedMode core.RuntimeMode
}

func newPlannedSource(identifier, objectName string, source core.TableSource) *PlannedSource {
	return &PlannedSource{
		identifier: identifier,
		objectName: objectName,
		source:     source,
	}
}

// Identifier returns the factory identifier the source was created by
func (p *PlannedSource) Identifier() string { return p.identifier }

// ObjectName returns the catalog table name
func (p *PlannedSource) ObjectName() string { return p.objectName }

// Source returns the underlying table source
func (p *PlannedSource) Source() core.TableSource { return p.source }

// State returns the current planning state
func (p *PlannedSource) State() State { return p.state }

// Describe queries the source's changelog mode.
func (p *PlannedSource) Describe() (core.ChangelogMode, error) {
	scan, err := p.scan()
	if err != nil {
		return core.ChangelogMode{}, err
	}
	if p.state == StateUnbound {
		p.mode = scan.ChangelogMode()
		p.state = StateDescribed
	}
	return p.mode, nil
}

// Provision requests the runtime provider for sc. It must follow Describe.
// Asking again for the same mode returns the provider already handed out.
func (p *PlannedSource) Provision(sc core.ScanContext) (core.ScanRuntimeProvider, error) {
	if sc.Mode == "" {
		sc.Mode = core.RuntimeModeStreaming
	}

	switch p.state {
	case StateUnbound:
		return nil, errors.Newf(errors.ErrorTypeLifecycle,
			"source for table '%s' must be described before a runtime provider is requested", p.objectName).
			WithDetail(errors.DetailObject, p.objectName)
	case StateProvisioned:
		if sc.Mode != p.providedMode {
			return nil, errors.Newf(errors.ErrorTypeLifecycle,
				"source for table '%s' was already provisioned for %s execution", p.objectName, p.providedMode).
				WithDetail(errors.DetailObject, p.objectName)
		}
		return p.provider, nil
	}

	scan, err := p.scan()
	if err != nil {
		return nil, err
	}
	provider, err := scan.ScanRuntimeProvider(sc)
	if err != nil {
		return nil, errors.Annotate(err, "failed to obtain scan runtime provider").
			WithDetail(errors.DetailObject, p.objectName)
	}
	if provider == nil {
		return nil, errors.Newf(errors.ErrorTypeInternal, "source '%s' returned no runtime provider", p.identifier)
	}
	if sc.Mode == core.RuntimeModeBatch && !provider.IsBounded() {
		return nil, errors.UnsupportedRuntimeMode(p.identifier, string(sc.Mode), "the source is unbounded").
			WithDetail(errors.DetailObject, p.objectName)
	}

	p.provider = provider
	p.providedMode = sc.Mode
	p.state = StateProvisioned
	return provider, nil
}

// Copy returns an unbound planned source over a copy of the underlying
// source, for use in another plan branch.
func (p *PlannedSource) Copy() *PlannedSource {
	return newPlannedSource(p.identifier, p.objectName, p.source.Copy())
}

func (p *PlannedSource) scan() (core.ScanTableSource, error) {
	scan, ok := p.source.(core.ScanTableSource)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeConfig,
			"source '%s' for table '%s' does not support scanning", p.identifier, p.objectName).
			WithDetail(errors.DetailIdentifier, p.identifier).
			WithDetail(errors.DetailObject, p.objectName)
	}
	return scan, nil
}
