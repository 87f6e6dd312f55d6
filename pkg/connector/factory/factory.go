// Package factory turns catalog table definitions into planned sources and
// sinks: resolve the factory, validate options, create the connector.
package factory

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/connector/registry"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/logger"
	"github.com/ajitpratap0/tablefactory/pkg/metrics"
	"github.com/ajitpratap0/tablefactory/pkg/observability"
	"github.com/ajitpratap0/tablefactory/pkg/options"
	"github.com/ajitpratap0/tablefactory/pkg/schema"
)

// Table is a catalog table as handed over by the catalog layer.
type Table struct {
	// Name is the catalog object name.
	Name string
	// Options are the raw table options; the connector key selects the factory.
	Options map[string]string
	// Schema is the resolved schema.
	Schema *schema.Schema
}

// Helper validates a table's options against one factory. Connectors that
// are instantiated outside CreateTableSource use it to get the same checks.
type Helper struct {
	factory core.Factory
	set     *options.Set
	raw     map[string]string
	options *options.Resolved
}

// NewHelper validates raw against f's declared options. The connector key,
// if present, is ignored.
func NewHelper(ctx context.Context, f core.Factory, raw map[string]string) (*Helper, error) {
	set, err := options.SetOf(f)
	if err != nil {
		return nil, err
	}

	stripped := make(map[string]string, len(raw))
	for k, v := range raw {
		if k == core.ConnectorOption {
			continue
		}
		stripped[k] = v
	}

	start := time.Now()
	resolved, err := options.Validate(set, stripped)
	observability.RecordValidation(ctx, f.FactoryIdentifier(), time.Since(start), err)
	if err != nil {
		metrics.RecordValidationFailure(err)
		return nil, err
	}

	return &Helper{factory: f, set: set, raw: stripped, options: resolved}, nil
}

// Options returns the validated options
func (h *Helper) Options() *options.Resolved {
	return h.options
}

// RawOptions returns the supplied options without the connector key
func (h *Helper) RawOptions() map[string]string {
	out := make(map[string]string, len(h.raw))
	for k, v := range h.raw {
		out[k] = v
	}
	return out
}

// Declared returns the factory's option set
func (h *Helper) Declared() *options.Set {
	return h.set
}

func (h *Helper) context(t Table) *core.Context {
	return &core.Context{
		Identifier: h.factory.FactoryIdentifier(),
		ObjectName: t.Name,
		Options:    h.options,
		RawOptions: h.RawOptions(),
		Schema:     t.Schema.Clone(),
	}
}

// CreateTableSource resolves, validates and creates the source for t.
func CreateTableSource(ctx context.Context, reg *registry.Registry, t Table) (_ *PlannedSource, err error) {
	identifier := t.Options[core.ConnectorOption]
	ctx = context.WithValue(ctx, logger.TableKey, t.Name)
	ctx = context.WithValue(ctx, logger.FactoryKey, identifier)
	log := logger.WithContext(ctx)

	ctx, span := observability.StartSpan(ctx, "factory.create_source",
		attribute.String("table", t.Name),
		attribute.String("identifier", identifier))
	defer func() { observability.EndSpan(span, err) }()
	defer func() {
		if err != nil {
			log.Warn("unable to create table source", zap.Error(err))
			err = errors.Annotate(err, fmt.Sprintf("unable to create a source for reading table '%s'", t.Name)).
				WithDetail(errors.DetailObject, t.Name)
		}
	}()

	if identifier == "" {
		return nil, errors.MissingRequiredOption(core.ConnectorOption)
	}
	f, err := reg.ResolveSource(identifier)
	if err != nil {
		return nil, err
	}
	h, err := NewHelper(ctx, f, t.Options)
	if err != nil {
		return nil, err
	}
	source, err := f.CreateSource(h.context(t))
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.Newf(errors.ErrorTypeInternal, "factory '%s' returned no source", identifier)
	}

	metrics.SourcesCreated.WithLabelValues(identifier).Inc()
	log.Debug("table source created",
		zap.String("summary", source.SummaryString()),
		zap.Stringer("options", h.options))

	return newPlannedSource(identifier, t.Name, source), nil
}

// CreateTableSink resolves, validates and creates the sink for t.
func CreateTableSink(ctx context.Context, reg *registry.Registry, t Table) (_ core.TableSink, err error) {
	identifier := t.Options[core.ConnectorOption]
	ctx = context.WithValue(ctx, logger.TableKey, t.Name)
	ctx = context.WithValue(ctx, logger.FactoryKey, identifier)
	log := logger.WithContext(ctx)

	ctx, span := observability.StartSpan(ctx, "factory.create_sink",
		attribute.String("table", t.Name),
		attribute.String("identifier", identifier))
	defer func() { observability.EndSpan(span, err) }()
	defer func() {
		if err != nil {
			log.Warn("unable to create table sink", zap.Error(err))
			err = errors.Annotate(err, fmt.Sprintf("unable to create a sink for writing table '%s'", t.Name)).
				WithDetail(errors.DetailObject, t.Name)
		}
	}()

	if identifier == "" {
		return nil, errors.MissingRequiredOption(core.ConnectorOption)
	}
	f, err := reg.ResolveSink(identifier)
	if err != nil {
		return nil, err
	}
	h, err := NewHelper(ctx, f, t.Options)
	if err != nil {
		return nil, err
	}
	sink, err := f.CreateSink(h.context(t))
	if err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, errors.Newf(errors.ErrorTypeInternal, "factory '%s' returned no sink", identifier)
	}

	metrics.SinksCreated.WithLabelValues(identifier).Inc()
	log.Debug("table sink created", zap.String("summary", sink.SummaryString()))
	return sink, nil
}
