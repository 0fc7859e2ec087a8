package main

import (
	"fmt"
	"strings"
)

// buildCreateTable composes the CREATE TABLE statement for one plan. Clause
// order is fixed: native columns in source order, then extra columns in
// configured order, then one UNIQUE clause per unique constraint in index
// discovery order. The same order is used for INSERT column lists, so the
// two must never diverge.
func buildCreateTable(plan TablePlan, extras []ExtraColumn) string {
	clauses := make([]string, 0, len(plan.Columns)+len(extras)+len(plan.Unique))

	for _, col := range plan.Columns {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s", pgIdent(col.Name), plan.Resolved[col.Name])
		if col.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if col.NotNull {
			b.WriteString(" NOT NULL")
		}
		if col.Default != nil {
			// Emitted verbatim; source defaults must already be valid target
			// literals.
			fmt.Fprintf(&b, " DEFAULT %s", *col.Default)
		}
		clauses = append(clauses, b.String())
	}

	for _, ex := range extras {
		clauses = append(clauses, fmt.Sprintf("%s %s", pgIdent(ex.Name), mapDeclaredType(ex.Type)))
	}

	for _, uc := range plan.Unique {
		clauses = append(clauses, fmt.Sprintf("UNIQUE (%s)", quotedColumnList(uc.Columns)))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", pgIdent(plan.Name), strings.Join(clauses, ", "))
}

// insertStatement builds the parameterized INSERT matching buildCreateTable's
// column order: native columns first, then extra columns, with positional
// placeholders $1..$n.
func insertStatement(plan TablePlan, extras []ExtraColumn) string {
	names := make([]string, 0, len(plan.Columns)+len(extras))
	for _, col := range plan.Columns {
		names = append(names, col.Name)
	}
	for _, ex := range extras {
		names = append(names, ex.Name)
	}

	placeholders := make([]string, len(names))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgIdent(plan.Name), quotedColumnList(names), strings.Join(placeholders, ", "))
}
