package main

import (
	"database/sql"
	"math/big"
	"path/filepath"
	"reflect"
	"testing"
)

// newTestSQLiteDB creates a real SQLite file under t.TempDir and applies the
// given statements.
func newTestSQLiteDB(t *testing.T, stmts []string) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return db
}

func TestSQLiteListTables(t *testing.T) {
	db := newTestSQLiteDB(t, []string{
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
		"CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT)",
	})

	src := &sqliteSourceDB{}
	tables, err := src.ListTables(db)
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}

	if len(tables) != 2 {
		t.Fatalf("tables = %v, want 2 entries", tables)
	}
	for _, name := range tables {
		if name != "users" && name != "posts" {
			t.Errorf("unexpected table %q", name)
		}
	}
}

func TestSQLiteDescribeColumns(t *testing.T) {
	db := newTestSQLiteDB(t, []string{
		`CREATE TABLE items (
			id INTEGER PRIMARY KEY,
			label TEXT NOT NULL,
			qty INT DEFAULT 3,
			note STRING
		)`,
	})

	src := &sqliteSourceDB{}
	cols, err := src.DescribeColumns(db, "items")
	if err != nil {
		t.Fatalf("DescribeColumns: %v", err)
	}

	if len(cols) != 4 {
		t.Fatalf("columns = %d, want 4", len(cols))
	}

	id := cols[0]
	if id.Name != "id" || id.DeclaredType != "INTEGER" || !id.PrimaryKey {
		t.Errorf("id column = %+v, want INTEGER PRIMARY KEY", id)
	}

	label := cols[1]
	if label.Name != "label" || !label.NotNull {
		t.Errorf("label column = %+v, want NOT NULL", label)
	}

	qty := cols[2]
	if qty.Default == nil || *qty.Default != "3" {
		t.Errorf("qty default = %v, want 3", qty.Default)
	}
	if qty.PrimaryKey || qty.NotNull {
		t.Errorf("qty column = %+v, want no constraints", qty)
	}
}

func TestSQLiteListUniqueConstraints(t *testing.T) {
	db := newTestSQLiteDB(t, []string{
		"CREATE TABLE pairs (a TEXT, b TEXT, c TEXT)",
		"CREATE UNIQUE INDEX idx_pairs_ba ON pairs(b, a)",
		"CREATE INDEX idx_pairs_c ON pairs(c)", // non-unique, must be excluded
	})

	src := &sqliteSourceDB{}
	ucs, err := src.ListUniqueConstraints(db, "pairs")
	if err != nil {
		t.Fatalf("ListUniqueConstraints: %v", err)
	}

	if len(ucs) != 1 {
		t.Fatalf("constraints = %+v, want exactly 1", ucs)
	}
	uc := ucs[0]
	if uc.IndexName != "idx_pairs_ba" {
		t.Errorf("index name = %q, want idx_pairs_ba", uc.IndexName)
	}
	// Key order, not alphabetical
	if !reflect.DeepEqual(uc.Columns, []string{"b", "a"}) {
		t.Errorf("columns = %v, want [b a]", uc.Columns)
	}
}

func TestSQLiteSampleIntegerColumn(t *testing.T) {
	db := newTestSQLiteDB(t, []string{
		"CREATE TABLE nums (v INTEGER)",
		"INSERT INTO nums (v) VALUES (5), (NULL), (3000000000), (-7)",
	})

	src := &sqliteSourceDB{}
	samples, err := src.SampleIntegerColumn(db, "nums", "v")
	if err != nil {
		t.Fatalf("SampleIntegerColumn: %v", err)
	}

	// NULLs are excluded
	if len(samples) != 3 {
		t.Fatalf("samples = %v, want 3 entries", samples)
	}
	if resolveIntegerWidth(samples) != TypeBigint {
		t.Errorf("width = %v, want BIGINT (3000000000 exceeds int32)", resolveIntegerWidth(samples))
	}
}

func TestSQLiteSampleIntegerColumn_TextValues(t *testing.T) {
	// SQLite's dynamic typing lets text land in an INTEGER column; huge digit
	// strings still count toward width, stray text is excluded.
	db := newTestSQLiteDB(t, []string{
		"CREATE TABLE nums (v INTEGER)",
		"INSERT INTO nums (v) VALUES ('18446744073709551616'), ('abc'), (1)",
	})

	src := &sqliteSourceDB{}
	samples, err := src.SampleIntegerColumn(db, "nums", "v")
	if err != nil {
		t.Fatalf("SampleIntegerColumn: %v", err)
	}

	if resolveIntegerWidth(samples) != TypeNumeric {
		t.Errorf("width = %v, want NUMERIC for value beyond int64", resolveIntegerWidth(samples))
	}
}

func TestSQLiteFetchRows(t *testing.T) {
	db := newTestSQLiteDB(t, []string{
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, flag BOOL)",
		"INSERT INTO users (id, name, flag) VALUES (1, 'a', 1), (2, 'b', 0)",
	})

	src := &sqliteSourceDB{}
	var rows [][]any
	err := src.FetchRows(db, "users", func(row []any) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		t.Fatalf("FetchRows: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != int64(1) || rows[0][1] != "a" {
		t.Errorf("first row = %v, want [1 a 1]", rows[0])
	}
	if len(rows[0]) != 3 {
		t.Errorf("row width = %d, want 3", len(rows[0]))
	}
}

func TestSQLiteReadOnlyURI(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
		err  bool
	}{
		{"plain path", "/data/app.db", "file:/data/app.db?mode=ro", false},
		{"relative path", "./relative.db", "file:./relative.db?mode=ro", false},
		{"file URI no params", "file:/data/app.db", "file:/data/app.db?mode=ro", false},
		{"file URI with params", "file:/data/app.db?cache=shared", "file:/data/app.db?cache=shared&mode=ro", false},
		{"memory rejected", ":memory:", "", true},
		{"file memory rejected", "file::memory:", "", true},
		{"mode=memory rejected", "file:test.db?mode=memory", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqliteReadOnlyURI(tt.dsn)
			if tt.err {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("sqliteReadOnlyURI(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestSQLiteOpenDB_RejectsMemory(t *testing.T) {
	src := &sqliteSourceDB{}
	if _, err := src.OpenDB(":memory:"); err == nil {
		t.Fatal("expected error for :memory: DSN")
	}
}

func TestSQLiteQuoteIdentifier(t *testing.T) {
	src := &sqliteSourceDB{}
	tests := []struct {
		in, want string
	}{
		{"users", `"users"`},
		{`my"table`, `"my""table"`},
	}
	for _, tt := range tests {
		if got := src.QuoteIdentifier(tt.in); got != tt.want {
			t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBigIntFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *big.Int
		ok   bool
	}{
		{"int64", int64(42), big.NewInt(42), true},
		{"float truncated", float64(3.9), big.NewInt(3), true},
		{"digit string", "99", big.NewInt(99), true},
		{"digit bytes", []byte("-5"), big.NewInt(-5), true},
		{"stray text", "abc", nil, false},
		{"bool", true, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := bigIntFromValue(tt.in)
			if ok != tt.ok {
				t.Fatalf("bigIntFromValue(%v) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got.Cmp(tt.want) != 0 {
				t.Errorf("bigIntFromValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
