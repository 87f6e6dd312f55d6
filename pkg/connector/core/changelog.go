package core

import (
	"strings"
)

// RowKind is the kind of change a row represents.
type RowKind uint8

const (
	RowKindInsert RowKind = iota
	RowKindUpdateBefore
	RowKindUpdateAfter
	RowKindDelete
)

var rowKindShort = [...]string{"+I", "-U", "+U", "-D"}

// ShortString returns the compact form used in logs and plans (+I, -U, +U, -D).
func (k RowKind) ShortString() string {
	if int(k) < len(rowKindShort) {
		return rowKindShort[k]
	}
	return "?"
}

func (k RowKind) String() string {
	switch k {
	case RowKindInsert:
		return "INSERT"
	case RowKindUpdateBefore:
		return "UPDATE_BEFORE"
	case RowKindUpdateAfter:
		return "UPDATE_AFTER"
	case RowKindDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// ChangelogMode is the set of row kinds a source may emit. The zero value
// is the empty set; values are immutable.
type ChangelogMode struct {
	kinds uint8
}

// NewChangelogMode builds a mode from row kinds.
func NewChangelogMode(kinds ...RowKind) ChangelogMode {
	var m ChangelogMode
	for _, k := range kinds {
		m.kinds |= 1 << k
	}
	return m
}

// InsertOnly is the mode of append-only sources.
func InsertOnly() ChangelogMode {
	return NewChangelogMode(RowKindInsert)
}

// Upsert is the mode of keyed sources that never emit update-before rows.
func Upsert() ChangelogMode {
	return NewChangelogMode(RowKindInsert, RowKindUpdateAfter, RowKindDelete)
}

// All is the mode of full retract changelogs.
func All() ChangelogMode {
	return NewChangelogMode(RowKindInsert, RowKindUpdateBefore, RowKindUpdateAfter, RowKindDelete)
}

// Contains reports whether kind may be emitted.
func (m ChangelogMode) Contains(kind RowKind) bool {
	return m.kinds&(1<<kind) != 0
}

// ContainsOnly reports whether kind is the only kind that may be emitted.
func (m ChangelogMode) ContainsOnly(kind RowKind) bool {
	return m.kinds == 1<<kind
}

// IsInsertOnly reports whether the mode is exactly insert-only.
func (m ChangelogMode) IsInsertOnly() bool {
	return m.ContainsOnly(RowKindInsert)
}

// Equal reports whether both modes hold the same row kinds.
func (m ChangelogMode) Equal(other ChangelogMode) bool {
	return m.kinds == other.kinds
}

// Kinds lists the contained row kinds in declaration order.
func (m ChangelogMode) Kinds() []RowKind {
	var out []RowKind
	for k := RowKindInsert; k <= RowKindDelete; k++ {
		if m.Contains(k) {
			out = append(out, k)
		}
	}
	return out
}

func (m ChangelogMode) String() string {
	kinds := m.Kinds()
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.ShortString()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
