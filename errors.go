package main

import "fmt"

// SchemaError means source metadata could not be read or was malformed.
// Partial schema knowledge is unsafe to act on, so it aborts the run before
// any mutation.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("schema: %v", e.Err)
	}
	return fmt.Sprintf("schema: table %s: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DDLError means the target rejected a CREATE TABLE statement.
type DDLError struct {
	Table string
	SQL   string
	Err   error
}

func (e *DDLError) Error() string {
	return fmt.Sprintf("create table %s: %v\nDDL: %s", e.Table, e.Err, e.SQL)
}

func (e *DDLError) Unwrap() error { return e.Err }

// CoercionError means a row value cannot be converted to its resolved target
// type. It is fatal to the whole run.
type CoercionError struct {
	Column string
	Target TargetType
	Value  any
	Reason string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("coerce column %s to %s: %s (value %v of type %T)",
		e.Column, e.Target, e.Reason, e.Value, e.Value)
}

// InsertError means the target rejected a parameterized insert. Same handling
// as CoercionError: current batch rolled back, run aborted.
type InsertError struct {
	Table string
	Row   []any
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert into %s: %v\nrow: %v", e.Table, e.Err, e.Row)
}

func (e *InsertError) Unwrap() error { return e.Err }
