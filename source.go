package main

import (
	"database/sql"
	"fmt"
	"math/big"
)

// SourceDB abstracts source database operations so pgbarge can migrate from
// multiple source engines (SQLite, MySQL).
type SourceDB interface {
	// Name returns a human-readable name for the source ("SQLite", "MySQL").
	Name() string

	// OpenDB opens a read-only connection with driver-specific options.
	OpenDB(dsn string) (*sql.DB, error)

	// ListTables returns all user tables, excluding system catalogs, in
	// source-reported order.
	ListTables(db *sql.DB) ([]string, error)

	// DescribeColumns returns one Column per table column, preserving source
	// column order.
	DescribeColumns(db *sql.DB, table string) ([]Column, error)

	// ListUniqueConstraints returns the table's unique indexes with their
	// constituent columns in index-key order.
	ListUniqueConstraints(db *sql.DB, table string) ([]UniqueConstraint, error)

	// SampleIntegerColumn scans every non-null value of an integer-declared
	// column for width inference. This is a full-table scan; callers only pay
	// for it on integer-typed columns.
	SampleIntegerColumn(db *sql.DB, table, column string) ([]*big.Int, error)

	// FetchRows iterates all rows of a table in positional column order,
	// invoking fn once per row. Iteration stops on the first fn error.
	FetchRows(db *sql.DB, table string, fn func(row []any) error) error

	// QuoteIdentifier quotes a source identifier for use in source queries.
	QuoteIdentifier(name string) string
}

// newSourceDB returns a SourceDB implementation for the given source type.
func newSourceDB(sourceType string) (SourceDB, error) {
	switch sourceType {
	case "sqlite":
		return &sqliteSourceDB{}, nil
	case "mysql":
		return &mysqlSourceDB{}, nil
	default:
		return nil, fmt.Errorf("unsupported source type %q (must be sqlite or mysql)", sourceType)
	}
}

// bigIntFromValue converts a sampled raw value into a big.Int. Values that
// are not integers (stray text in a dynamically typed column) are reported
// as not ok and excluded from width inference; coercion decides their fate
// later, during the copy phase.
func bigIntFromValue(val any) (*big.Int, bool) {
	switch v := val.(type) {
	case int64:
		return big.NewInt(v), true
	case float64:
		// Exact truncation toward zero; a plain int64 conversion is
		// implementation-dependent for magnitudes beyond int64.
		n, _ := new(big.Float).SetFloat64(v).Int(nil)
		return n, true
	case string:
		return new(big.Int).SetString(v, 10)
	case []byte:
		return new(big.Int).SetString(string(v), 10)
	}
	return nil, false
}

// scanRow reads the current row of rows into a fresh []any slice.
func scanRow(rows *sql.Rows, width int) ([]any, error) {
	vals := make([]any, width)
	ptrs := make([]any, width)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return vals, nil
}
