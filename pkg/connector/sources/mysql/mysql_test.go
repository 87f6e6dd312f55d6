package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/options"
	"github.com/ajitpratap0/tablefactory/pkg/schema"
)

var customers = &schema.Schema{
	Columns: []schema.Column{
		{Name: "id", Type: schema.TypeBigInt},
		{Name: "name", Type: schema.TypeString, Nullable: true},
	},
	PrimaryKey: []string{"id"},
}

func create(t *testing.T, raw map[string]string) (core.TableSource, error) {
	t.Helper()
	set, err := options.SetOf(NewFactory())
	require.NoError(t, err)
	resolved, err := options.Validate(set, raw)
	if err != nil {
		return nil, err
	}
	return NewFactory().CreateSource(&core.Context{
		Identifier: Identifier,
		ObjectName: "customers",
		Options:    resolved,
		Schema:     customers,
	})
}

func TestCreateSource(t *testing.T) {
	src, err := create(t, map[string]string{
		"dsn":                   "app:secret@tcp(mysql.internal:3306)/crm",
		"table-name":            "customers",
		"scan.partition.column": "id",
	})
	require.NoError(t, err)

	scan := src.(core.ScanTableSource)
	assert.True(t, scan.ChangelogMode().IsInsertOnly())

	p, err := scan.ScanRuntimeProvider(core.ScanContext{Mode: core.RuntimeModeBatch})
	require.NoError(t, err)
	rp := p.(*RuntimeProvider)

	assert.True(t, rp.IsBounded())
	assert.Equal(t, "mysql.internal:3306", rp.Config.Addr)
	assert.Equal(t, "crm", rp.Config.DBName)
	assert.Equal(t, "SELECT `id`, `name` FROM `customers`", rp.Query)
	assert.Equal(t, int64(1000), rp.FetchSize)
	assert.Equal(t, "id", rp.PartitionColumn)
}

func TestCreateSourceRejectsBadInput(t *testing.T) {
	_, err := create(t, map[string]string{"dsn": "no-slash-here", "table-name": "customers"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidOptionValue))

	_, err = create(t, map[string]string{
		"dsn":             "app@tcp(db:3306)/crm",
		"table-name":      "customers",
		"scan.fetch-size": "-5",
	})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidOptionValue))

	_, err = create(t, map[string]string{
		"dsn":                   "app@tcp(db:3306)/crm",
		"table-name":            "customers",
		"scan.partition.column": "region",
	})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidOptionValue))
}

func TestCopyIsIndependent(t *testing.T) {
	src, err := create(t, map[string]string{"dsn": "app@tcp(db:3306)/crm", "table-name": "customers"})
	require.NoError(t, err)

	orig := src.(*Source)
	clone := orig.Copy().(*Source)
	clone.config.DBName = "other"
	clone.schema.Columns[0].Name = "changed"

	assert.Equal(t, "crm", orig.config.DBName)
	assert.Equal(t, "id", orig.schema.Columns[0].Name)
	assert.Equal(t, orig.SummaryString(), clone.SummaryString())
}
