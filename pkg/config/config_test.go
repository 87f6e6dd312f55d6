package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/schema"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TF_TEST_BROKERS", "kafka:9092")
	t.Setenv("TF_TEST_EMPTY", "")

	tests := []struct {
		in, want string
	}{
		{"servers: ${TF_TEST_BROKERS}", "servers: kafka:9092"},
		{"${TF_TEST_BROKERS},${TF_TEST_BROKERS}", "kafka:9092,kafka:9092"},
		{"group: ${TF_TEST_UNSET}", "group: "},
		{"group: ${TF_TEST_UNSET:-analytics}", "group: analytics"},
		{"group: ${TF_TEST_EMPTY:-analytics}", "group: analytics"},
		{"group: ${TF_TEST_BROKERS:-analytics}", "group: kafka:9092"},
		{"dangling ${TF_TEST_BROKERS", "dangling ${TF_TEST_BROKERS"},
		{"no references", "no references"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, substituteEnvVars(tt.in), tt.in)
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Setenv("TF_TEST_BROKERS", "b1:9092,b2:9092")
	path := writeFile(t, "catalog.yaml", `
tables:
  - name: orders
    options:
      connector: kafka
      topic: orders
      properties.bootstrap.servers: ${TF_TEST_BROKERS}
    schema:
      columns:
        - {name: id, type: BIGINT}
        - {name: amount, type: DOUBLE, nullable: true}
      primary_key: [id]
  - name: audit
    kind: sink
    options:
      connector: sink-only
`)

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Tables, 2)

	orders, ok := c.Table("orders")
	require.True(t, ok)
	assert.False(t, orders.IsSink())
	assert.Equal(t, "b1:9092,b2:9092", orders.Options["properties.bootstrap.servers"])
	require.NotNil(t, orders.Schema)
	assert.Equal(t, []string{"id", "amount"}, orders.Schema.ColumnNames())
	assert.Equal(t, schema.TypeDouble, orders.Schema.Columns[1].Type)
	assert.True(t, orders.Schema.HasPrimaryKey())

	audit, ok := c.Table("audit")
	require.True(t, ok)
	assert.True(t, audit.IsSink())
	assert.Nil(t, audit.Schema)

	_, ok = c.Table("missing")
	assert.False(t, ok)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = LoadCatalog(writeFile(t, "bad.yaml", "tables: [oops"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = LoadCatalog(writeFile(t, "dup.yaml", `
tables:
  - name: t
  - name: t
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined more than once")

	_, err = LoadCatalog(writeFile(t, "kind.yaml", `
tables:
  - name: t
    kind: lookup
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind 'lookup'")

	_, err = LoadCatalog(writeFile(t, "noname.yaml", `
tables:
  - options: {connector: x}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table #1 has no name")
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, "console", s.Log.Encoding)
	assert.False(t, s.Trace.Enabled)
	assert.Equal(t, 1.0, s.Trace.SamplingRate)
	assert.Equal(t, "streaming", s.Mode)
}

func TestLoadSettingsFromEnvAndFile(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
log:
  level: info
  encoding: json
catalog: /etc/tablefactory/catalog.yaml
`)
	t.Setenv("TABLEFACTORY_LOG_LEVEL", "debug")
	t.Setenv("TABLEFACTORY_TRACE_ENABLED", "true")

	s, err := LoadSettings(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Encoding)
	assert.True(t, s.Trace.Enabled)
	assert.Equal(t, "/etc/tablefactory/catalog.yaml", s.Catalog)

	_, err = LoadSettings(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "TF_TEST_DOTENV=from-file\nTF_TEST_PRESET=from-file\n")
	t.Setenv("TF_TEST_PRESET", "from-env")
	t.Cleanup(func() { os.Unsetenv("TF_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "from-file", os.Getenv("TF_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("TF_TEST_PRESET"))
}
