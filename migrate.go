package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// buildPlans introspects every source table and resolves its target types and
// DDL. All plans are built before any mutation, so a schema read failure can
// never leave half-created tables behind.
func buildPlans(src SourceDB, db *sql.DB, extras []ExtraColumn) ([]TablePlan, error) {
	tables, err := src.ListTables(db)
	if err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("list tables: %w", err)}
	}

	var plans []TablePlan
	for _, table := range tables {
		plan, err := buildTablePlan(src, db, table, extras)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func buildTablePlan(src SourceDB, db *sql.DB, table string, extras []ExtraColumn) (TablePlan, error) {
	cols, err := src.DescribeColumns(db, table)
	if err != nil {
		return TablePlan{}, &SchemaError{Table: table, Err: fmt.Errorf("describe columns: %w", err)}
	}

	unique, err := src.ListUniqueConstraints(db, table)
	if err != nil {
		return TablePlan{}, &SchemaError{Table: table, Err: fmt.Errorf("list unique constraints: %w", err)}
	}

	resolved := make(map[string]TargetType, len(cols))
	for _, col := range cols {
		target := mapDeclaredType(col.DeclaredType)
		if target == TypeInteger {
			// Width inference needs a full-column scan; only integer-typed
			// columns pay for it.
			samples, err := src.SampleIntegerColumn(db, table, col.Name)
			if err != nil {
				return TablePlan{}, &SchemaError{Table: table, Err: fmt.Errorf("sample column %s: %w", col.Name, err)}
			}
			target = resolveIntegerWidth(samples)
		}
		resolved[col.Name] = target
	}

	plan := TablePlan{
		Name:     table,
		Columns:  cols,
		Unique:   unique,
		Resolved: resolved,
	}
	plan.DDL = buildCreateTable(plan, extras)
	return plan, nil
}

// createTables executes each plan's DDL in plan order.
func createTables(ctx context.Context, pool *pgxpool.Pool, plans []TablePlan) error {
	for _, plan := range plans {
		log.Printf("  creating %s", plan.Name)
		if _, err := pool.Exec(ctx, plan.DDL); err != nil {
			return &DDLError{Table: plan.Name, SQL: plan.DDL, Err: err}
		}
	}
	return nil
}

// copyTable streams all rows of one table through the coercer into batched
// INSERTs. A transaction is committed every batchSize rows and once more
// after the final row; any coercion or insert failure rolls back the open
// transaction and aborts the run.
func copyTable(ctx context.Context, pool *pgxpool.Pool, src SourceDB, db *sql.DB, plan TablePlan, extras []ExtraColumn, batchSize int) (int, error) {
	stmt := insertStatement(plan, extras)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	count := 0
	err = src.FetchRows(db, plan.Name, func(row []any) error {
		vals, err := coerceRow(row, plan.Columns, plan.Resolved, extras)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, stmt, vals...); err != nil {
			return &InsertError{Table: plan.Name, Row: vals, Err: err}
		}
		count++
		if count%batchSize == 0 {
			if err := tx.Commit(ctx); err != nil {
				return fmt.Errorf("commit batch: %w", err)
			}
			tx, err = pool.Begin(ctx)
			if err != nil {
				return fmt.Errorf("begin batch: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		tx.Rollback(ctx)
		return count, fmt.Errorf("copy %s: %w", plan.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return count, fmt.Errorf("copy %s: final commit: %w", plan.Name, err)
	}
	return count, nil
}

// runTransfer drives the whole run: Discover → Plan → Confirm → Create →
// Copy. A declined confirmation terminates cleanly; everything after it is
// all-or-nothing per run, not per table.
func runTransfer(ctx context.Context, cfg *MigrationConfig, src SourceDB, srcDB *sql.DB, pool *pgxpool.Pool, confirm func([]TablePlan) (bool, error)) error {
	log.Printf("introspecting %s schema...", src.Name())
	plans, err := buildPlans(src, srcDB, cfg.ExtraColumns)
	if err != nil {
		return err
	}
	log.Printf("found %d tables", len(plans))
	for _, plan := range plans {
		log.Printf("  %s (%d cols, %d unique constraints)", plan.Name, len(plan.Columns), len(plan.Unique))
	}

	log.Printf("planned DDL:")
	for _, plan := range plans {
		log.Printf("  %s", plan.DDL)
	}

	ok, err := confirm(plans)
	if err != nil {
		return fmt.Errorf("confirmation: %w", err)
	}
	if !ok {
		log.Printf("migration aborted by user")
		return nil
	}

	log.Printf("creating tables...")
	if err := createTables(ctx, pool, plans); err != nil {
		return err
	}

	log.Printf("copying data...")
	for _, plan := range plans {
		rows, err := copyTable(ctx, pool, src, srcDB, plan, cfg.ExtraColumns, cfg.BatchSize)
		if err != nil {
			return err
		}
		log.Printf("  %s: %d rows", plan.Name, rows)
	}

	if err := execHookFiles(ctx, pool, cfg, cfg.Hooks.AfterCopy, "after_copy"); err != nil {
		return fmt.Errorf("after_copy hooks: %w", err)
	}

	return nil
}
