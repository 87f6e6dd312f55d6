// Package postgres_cdc provides the PostgreSQL logical replication table
// source factory. Sources emit a full retract changelog and never end.
package postgres_cdc

import (
	"fmt"
	"regexp"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/jackc/pgx/v5"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/connector/registry"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/options"
	"github.com/ajitpratap0/tablefactory/pkg/schema"
)

// Identifier is the factory identifier of the PostgreSQL CDC connector.
const Identifier = "postgres-cdc"

var (
	DSN            = options.String("dsn").WithDescription("libpq connection string or URL.")
	SlotName       = options.String("slot.name").WithDescription("Logical replication slot to stream from.")
	Publication    = options.String("publication.name").WithDefault("tablefactory_pub")
	DecodingPlugin = options.Enum("decoding.plugin.name", "pgoutput", "wal2json").WithDefault("pgoutput")
	Heartbeat      = options.Duration("heartbeat.interval").WithDefault(30 * time.Second)
)

// Slot names are limited to lower case letters, digits and underscores.
var slotNamePattern = regexp.MustCompile(`^[a-z0-9_]{1,63}$`)

func init() {
	registry.Provide(NewFactory())
}

// Factory creates PostgreSQL CDC sources
type Factory struct{}

// NewFactory creates the PostgreSQL CDC factory
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) FactoryIdentifier() string { return Identifier }

func (f *Factory) RequiredOptions() []options.Key {
	return []options.Key{DSN.Key(), SlotName.Key()}
}

func (f *Factory) OptionalOptions() []options.Key {
	return []options.Key{Publication.Key(), DecodingPlugin.Key(), Heartbeat.Key()}
}

// CreateSource implements core.SourceFactory
func (f *Factory) CreateSource(ctx *core.Context) (core.TableSource, error) {
	dsn := options.Get(ctx.Options, DSN)
	if _, err := checkDSN(dsn); err != nil {
		// the DSN may carry a password
		return nil, errors.InvalidOptionValue(DSN.Name(), "<redacted>", "PostgreSQL connection string", err)
	}

	slot := options.Get(ctx.Options, SlotName)
	if !slotNamePattern.MatchString(slot) {
		return nil, errors.InvalidOptionValue(SlotName.Name(), slot, "replication slot name", nil)
	}
	if options.Get(ctx.Options, Heartbeat) <= 0 {
		return nil, errors.InvalidOptionValue(Heartbeat.Name(), ctx.RawOptions[Heartbeat.Name()], "positive duration", nil)
	}

	return &Source{
		dsn:         dsn,
		table:       ctx.ObjectName,
		slot:        slot,
		publication: options.Get(ctx.Options, Publication),
		plugin:      options.Get(ctx.Options, DecodingPlugin),
		heartbeat:   options.Get(ctx.Options, Heartbeat),
		schema:      ctx.Schema.Clone(),
	}, nil
}

// Source streams row changes of one table from a replication slot.
type Source struct {
	dsn         string
	table       string
	slot        string
	publication string
	plugin      string
	heartbeat   time.Duration
	schema      *schema.Schema
}

// Copy implements core.TableSource
func (s *Source) Copy() core.TableSource {
	c := *s
	c.schema = s.schema.Clone()
	return &c
}

// SummaryString implements core.TableSource
func (s *Source) SummaryString() string {
	return fmt.Sprintf("PostgresCDC(table=%s, slot=%s, plugin=%s)", s.table, s.slot, s.plugin)
}

// ChangelogMode implements core.ScanTableSource
func (s *Source) ChangelogMode() core.ChangelogMode {
	return core.All()
}

// ScanRuntimeProvider implements core.ScanTableSource. The provider is
// always unbounded; planning for batch execution rejects it.
func (s *Source) ScanRuntimeProvider(core.ScanContext) (core.ScanRuntimeProvider, error) {
	rowType, err := s.schema.ToArrow()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "unsupported table schema")
	}

	return &RuntimeProvider{
		dsn:         s.dsn,
		Slot:        s.slot,
		Publication: s.publication,
		Plugin:      s.plugin,
		Heartbeat:   s.heartbeat,
		RowType:     rowType,
	}, nil
}

// RuntimeProvider carries the replication connection settings.
type RuntimeProvider struct {
	dsn         string
	Slot        string
	Publication string
	Plugin      string
	Heartbeat   time.Duration
	RowType     *arrow.Schema
}

// ConnConfig resolves the replication connection configuration. Resolving
// reads the certificate, passfile and service files the DSN refers to, so it
// belongs to the runtime that opens the connection.
func (p *RuntimeProvider) ConnConfig() (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(p.dsn)
	if err != nil {
		return nil, errors.InvalidOptionValue(DSN.Name(), "<redacted>", "PostgreSQL connection string", err)
	}
	cfg.RuntimeParams["replication"] = "database"
	return cfg, nil
}

// IsBounded implements core.ScanRuntimeProvider
func (p *RuntimeProvider) IsBounded() bool {
	return false
}
