package main

// TargetType is the closed set of PostgreSQL types a source column can
// resolve to. The string value is emitted verbatim in DDL.
type TargetType string

const (
	TypeInteger         TargetType = "INTEGER"
	TypeBigint          TargetType = "BIGINT"
	TypeNumeric         TargetType = "NUMERIC"
	TypeText            TargetType = "TEXT"
	TypeBytea           TargetType = "BYTEA"
	TypeDoublePrecision TargetType = "DOUBLE PRECISION"
	TypeBoolean         TargetType = "BOOLEAN"
)

// Column is one introspected source column. Slice order is significant: it
// matches the source column order and determines positional row mapping.
type Column struct {
	Name         string
	DeclaredType string  // raw type name as reported by the source
	NotNull      bool
	Default      *string // default literal, emitted verbatim in DDL
	PrimaryKey   bool
}

// UniqueConstraint is one unique index on a source table, columns in
// index-key order.
type UniqueConstraint struct {
	IndexName string
	Columns   []string
}

// ExtraColumn is a user-configured column appended to every migrated table.
// It is never read from the source; every row gets the configured default.
type ExtraColumn struct {
	Name    string `toml:"name"`
	Type    string `toml:"type"`
	Default any    `toml:"default"`
}

// TablePlan is the full migration plan for one table, built before any
// mutation. Resolved types are fixed for the whole table transfer and must
// not be recomputed mid-copy, even if later rows would sample differently.
type TablePlan struct {
	Name     string
	Columns  []Column
	Unique   []UniqueConstraint
	Resolved map[string]TargetType
	DDL      string
}
