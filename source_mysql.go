package main

import (
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

type mysqlSourceDB struct {
	dbName string
}

func (m *mysqlSourceDB) Name() string { return "MySQL" }

func (m *mysqlSourceDB) OpenDB(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("mysql dsn must name a database")
	}
	m.dbName = cfg.DBName

	cfg.ParseTime = true
	cfg.InterpolateParams = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (m *mysqlSourceDB) QuoteIdentifier(name string) string {
	return fmt.Sprintf("`%s`", strings.ReplaceAll(name, "`", "``"))
}

func (m *mysqlSourceDB) ListTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		 ORDER BY TABLE_NAME`,
		m.dbName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (m *mysqlSourceDB) DescribeColumns(db *sql.DB, table string) ([]Column, error) {
	rows, err := db.Query(
		`SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY
		 FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		 ORDER BY ORDINAL_POSITION`,
		m.dbName, table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var name, colType, nullable, key string
		var dflt sql.NullString
		if err := rows.Scan(&name, &colType, &nullable, &dflt, &key); err != nil {
			return nil, err
		}

		col := Column{
			Name:         name,
			DeclaredType: colType,
			NotNull:      nullable == "NO",
			PrimaryKey:   key == "PRI",
		}
		if dflt.Valid {
			col.Default = &dflt.String
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (m *mysqlSourceDB) ListUniqueConstraints(db *sql.DB, table string) ([]UniqueConstraint, error) {
	rows, err := db.Query(
		`SELECT INDEX_NAME, COLUMN_NAME
		 FROM INFORMATION_SCHEMA.STATISTICS
		 WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND NON_UNIQUE = 0 AND INDEX_NAME <> 'PRIMARY'
		 ORDER BY INDEX_NAME, SEQ_IN_INDEX`,
		m.dbName, table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byName := make(map[string]*UniqueConstraint)
	var order []string
	for rows.Next() {
		var idxName, colName string
		if err := rows.Scan(&idxName, &colName); err != nil {
			return nil, err
		}
		uc, ok := byName[idxName]
		if !ok {
			uc = &UniqueConstraint{IndexName: idxName}
			byName[idxName] = uc
			order = append(order, idxName)
		}
		uc.Columns = append(uc.Columns, colName)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var constraints []UniqueConstraint
	for _, name := range order {
		constraints = append(constraints, *byName[name])
	}
	return constraints, nil
}

func (m *mysqlSourceDB) SampleIntegerColumn(db *sql.DB, table, column string) ([]*big.Int, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT %s FROM %s", m.QuoteIdentifier(column), m.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*big.Int
	for rows.Next() {
		var val any
		if err := rows.Scan(&val); err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		if n, ok := bigIntFromValue(val); ok {
			samples = append(samples, n)
		}
	}
	return samples, rows.Err()
}

func (m *mysqlSourceDB) FetchRows(db *sql.DB, table string, fn func(row []any) error) error {
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s", m.QuoteIdentifier(table)))
	if err != nil {
		return err
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		row, err := scanRow(rows, len(colNames))
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}
