// Package schema describes the resolved table schema handed to factories by
// the catalog. The catalog has already validated it; this package only
// offers lookups and the Arrow view of the physical row type.
package schema

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// LogicalType is the catalog type of a column.
type LogicalType string

const (
	TypeBoolean   LogicalType = "BOOLEAN"
	TypeInt       LogicalType = "INT"
	TypeBigInt    LogicalType = "BIGINT"
	TypeDouble    LogicalType = "DOUBLE"
	TypeString    LogicalType = "STRING"
	TypeBytes     LogicalType = "BYTES"
	TypeDate      LogicalType = "DATE"
	TypeTimestamp LogicalType = "TIMESTAMP"
)

// Column is one physical column.
type Column struct {
	Name     string      `yaml:"name" json:"name"`
	Type     LogicalType `yaml:"type" json:"type"`
	Nullable bool        `yaml:"nullable" json:"nullable"`
}

// Schema is the resolved schema of a catalog table.
type Schema struct {
	Columns       []Column `yaml:"columns" json:"columns"`
	PrimaryKey    []string `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	PartitionKeys []string `yaml:"partition_keys,omitempty" json:"partition_keys,omitempty"`
}

// Column returns the column with the given name.
func (s *Schema) Column(name string) (Column, bool) {
	if s == nil {
		return Column{}, false
	}
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns column names in declaration order.
func (s *Schema) ColumnNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// HasPrimaryKey reports whether a primary key is declared.
func (s *Schema) HasPrimaryKey() bool {
	return s != nil && len(s.PrimaryKey) > 0
}

// Clone returns a deep copy.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	return &Schema{
		Columns:       append([]Column(nil), s.Columns...),
		PrimaryKey:    append([]string(nil), s.PrimaryKey...),
		PartitionKeys: append([]string(nil), s.PartitionKeys...),
	}
}

func (s *Schema) String() string {
	if s == nil {
		return "()"
	}
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		if c.Nullable {
			cols[i] = fmt.Sprintf("%s %s", c.Name, c.Type)
		} else {
			cols[i] = fmt.Sprintf("%s %s NOT NULL", c.Name, c.Type)
		}
	}
	return "(" + strings.Join(cols, ", ") + ")"
}

// ToArrow returns the Arrow schema of the rows a runtime provider would produce.
// Primary and partition keys are carried as schema metadata.
func (s *Schema) ToArrow() (*arrow.Schema, error) {
	if s == nil {
		return arrow.NewSchema(nil, nil), nil
	}

	fields := make([]arrow.Field, 0, len(s.Columns))
	for _, c := range s.Columns {
		dt, err := arrowType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		fields = append(fields, arrow.Field{Name: c.Name, Type: dt, Nullable: c.Nullable})
	}

	var keys, values []string
	if len(s.PrimaryKey) > 0 {
		keys = append(keys, "primary_key")
		values = append(values, strings.Join(s.PrimaryKey, ","))
	}
	if len(s.PartitionKeys) > 0 {
		keys = append(keys, "partition_keys")
		values = append(values, strings.Join(s.PartitionKeys, ","))
	}
	if len(keys) == 0 {
		return arrow.NewSchema(fields, nil), nil
	}
	md := arrow.NewMetadata(keys, values)
	return arrow.NewSchema(fields, &md), nil
}

func arrowType(t LogicalType) (arrow.DataType, error) {
	switch LogicalType(strings.ToUpper(string(t))) {
	case TypeBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case TypeInt:
		return arrow.PrimitiveTypes.Int32, nil
	case TypeBigInt:
		return arrow.PrimitiveTypes.Int64, nil
	case TypeDouble:
		return arrow.PrimitiveTypes.Float64, nil
	case TypeString:
		return arrow.BinaryTypes.String, nil
	case TypeBytes:
		return arrow.BinaryTypes.Binary, nil
	case TypeDate:
		return arrow.FixedWidthTypes.Date32, nil
	case TypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	default:
		return nil, fmt.Errorf("unsupported logical type %q", t)
	}
}
