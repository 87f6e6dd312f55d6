// Package mysql provides the MySQL snapshot table source factory. Sources
// read one table once and are always bounded.
package mysql

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	driver "github.com/go-sql-driver/mysql"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/connector/registry"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/options"
	"github.com/ajitpratap0/tablefactory/pkg/schema"
)

// Identifier is the factory identifier of the MySQL connector.
const Identifier = "mysql"

var (
	DSN             = options.String("dsn").WithDescription("go-sql-driver DSN, e.g. user:pass@tcp(host:3306)/db.")
	TableName       = options.String("table-name").WithDescription("Name of the MySQL table to read.")
	FetchSize       = options.Int("scan.fetch-size").WithDefault(1000)
	PartitionColumn = options.String("scan.partition.column").WithDescription("Column used to split the scan.")
)

func init() {
	registry.Provide(NewFactory())
}

// Factory creates MySQL snapshot sources
type Factory struct{}

// NewFactory creates the MySQL factory
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) FactoryIdentifier() string { return Identifier }

func (f *Factory) RequiredOptions() []options.Key {
	return []options.Key{DSN.Key(), TableName.Key()}
}

func (f *Factory) OptionalOptions() []options.Key {
	return []options.Key{FetchSize.Key(), PartitionColumn.Key()}
}

// CreateSource implements core.SourceFactory
func (f *Factory) CreateSource(ctx *core.Context) (core.TableSource, error) {
	cfg, err := driver.ParseDSN(options.Get(ctx.Options, DSN))
	if err != nil {
		return nil, errors.InvalidOptionValue(DSN.Name(), "<redacted>", "MySQL DSN", err)
	}

	fetchSize := options.Get(ctx.Options, FetchSize)
	if fetchSize <= 0 {
		return nil, errors.InvalidOptionValue(FetchSize.Name(), fmt.Sprint(fetchSize), "positive INTEGER", nil)
	}

	partition := options.Get(ctx.Options, PartitionColumn)
	if partition != "" && ctx.Schema != nil {
		if _, ok := ctx.Schema.Column(partition); !ok {
			return nil, errors.InvalidOptionValue(PartitionColumn.Name(), partition, "column of the table schema", nil)
		}
	}

	return &Source{
		config:    cfg,
		table:     options.Get(ctx.Options, TableName),
		fetchSize: fetchSize,
		partition: partition,
		schema:    ctx.Schema.Clone(),
	}, nil
}

// Source scans a MySQL table once.
type Source struct {
	config    *driver.Config
	table     string
	fetchSize int64
	partition string
	schema    *schema.Schema
}

// Copy implements core.TableSource
func (s *Source) Copy() core.TableSource {
	return &Source{
		config:    s.config.Clone(),
		table:     s.table,
		fetchSize: s.fetchSize,
		partition: s.partition,
		schema:    s.schema.Clone(),
	}
}

// SummaryString implements core.TableSource
func (s *Source) SummaryString() string {
	return fmt.Sprintf("MySQL(table=%s, fetch-size=%d)", s.table, s.fetchSize)
}

// ChangelogMode implements core.ScanTableSource
func (s *Source) ChangelogMode() core.ChangelogMode {
	return core.InsertOnly()
}

// ScanRuntimeProvider implements core.ScanTableSource
func (s *Source) ScanRuntimeProvider(core.ScanContext) (core.ScanRuntimeProvider, error) {
	rowType, err := s.schema.ToArrow()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "unsupported table schema")
	}
	return &RuntimeProvider{
		Config:          s.config.Clone(),
		Query:           s.query(),
		FetchSize:       s.fetchSize,
		PartitionColumn: s.partition,
		RowType:         rowType,
	}, nil
}

func (s *Source) query() string {
	cols := "*"
	if names := s.schema.ColumnNames(); len(names) > 0 {
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = quoteIdent(n)
		}
		cols = strings.Join(quoted, ", ")
	}
	return fmt.Sprintf("SELECT %s FROM %s", cols, quoteIdent(s.table))
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// RuntimeProvider carries the connection settings and scan query.
type RuntimeProvider struct {
	Config          *driver.Config
	Query           string
	FetchSize       int64
	PartitionColumn string
	RowType         *arrow.Schema
}

// IsBounded implements core.ScanRuntimeProvider
func (p *RuntimeProvider) IsBounded() bool {
	return true
}
