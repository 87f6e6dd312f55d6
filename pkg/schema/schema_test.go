package schema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersSchema() *Schema {
	return &Schema{
		Columns: []Column{
			{Name: "id", Type: TypeBigInt},
			{Name: "customer", Type: TypeString, Nullable: true},
			{Name: "created_at", Type: "timestamp"},
		},
		PrimaryKey: []string{"id"},
	}
}

func TestToArrow(t *testing.T) {
	as, err := ordersSchema().ToArrow()
	require.NoError(t, err)

	require.Equal(t, 3, as.NumFields())
	assert.Equal(t, arrow.PrimitiveTypes.Int64, as.Field(0).Type)
	assert.False(t, as.Field(0).Nullable)
	assert.Equal(t, arrow.BinaryTypes.String, as.Field(1).Type)
	assert.True(t, as.Field(1).Nullable)
	assert.Equal(t, arrow.FixedWidthTypes.Timestamp_us, as.Field(2).Type)

	md := as.Metadata()
	idx := md.FindKey("primary_key")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "id", md.Values()[idx])
}

func TestToArrowUnsupportedType(t *testing.T) {
	s := &Schema{Columns: []Column{{Name: "geo", Type: "GEOGRAPHY"}}}
	_, err := s.ToArrow()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geo")
}

func TestCloneIsIndependent(t *testing.T) {
	orig := ordersSchema()
	clone := orig.Clone()
	clone.Columns[0].Name = "changed"
	clone.PrimaryKey[0] = "changed"

	assert.Equal(t, "id", orig.Columns[0].Name)
	assert.Equal(t, []string{"id"}, orig.PrimaryKey)
	assert.Nil(t, (*Schema)(nil).Clone())
}

func TestLookups(t *testing.T) {
	s := ordersSchema()
	c, ok := s.Column("customer")
	assert.True(t, ok)
	assert.True(t, c.Nullable)
	_, ok = s.Column("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"id", "customer", "created_at"}, s.ColumnNames())
	assert.True(t, s.HasPrimaryKey())
	assert.Equal(t, "(id BIGINT NOT NULL, customer STRING, created_at timestamp NOT NULL)", s.String())
}
