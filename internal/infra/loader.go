package infra

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/chrisconley/payflow/specs"
)

// columnTypes maps the export table's portable type names to PostgreSQL
// column types.
var columnTypes = map[string]string{
	"text":      "TEXT",
	"decimal":   "NUMERIC(12,2)",
	"integer":   "INTEGER",
	"double":    "DOUBLE PRECISION",
	"boolean":   "BOOLEAN",
	"date":      "DATE",
	"timestamp": "TIMESTAMP",
}

// indexedColumns are the analytics dimensions queried most by the reporting
// layer; Replace indexes them after loading.
var indexedColumns = []string{
	"payment_status",
	"payment_provider",
	"geo_region",
	"product_tier",
	"date",
	"month",
	"is_success",
	"is_high_value",
	"failure_reason_std",
	"customer_id",
	"subscription_id",
}

// LoadStats summarizes a finished load for post-load validation.
type LoadStats struct {
	Rows    int
	Columns int
}

// Loader writes an export table into a PostgreSQL warehouse.
//
// Each load fully replaces the target table: the batch is the source of
// truth and the warehouse copy is a derived artifact, so there is nothing to
// merge. Everything happens inside one transaction; a failed load leaves the
// previous table intact.
type Loader struct {
	db    *sql.DB
	table string
}

// NewLoader builds a loader that writes to the named table.
func NewLoader(db *sql.DB, table string) Loader {
	return Loader{db: db, table: table}
}

// Replace drops and recreates the target table from the export schema, then
// inserts every row. Empty cells load as NULL for every non-text column.
func (l Loader) Replace(ctx context.Context, table specs.TableSpec) (LoadStats, error) {
	if len(table.Columns) == 0 {
		return LoadStats{}, fmt.Errorf("export table has no columns")
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadStats{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", l.table)); err != nil {
		return LoadStats{}, fmt.Errorf("drop table: %w", err)
	}

	createStmt, err := createTableStatement(l.table, table.Columns)
	if err != nil {
		return LoadStats{}, err
	}
	if _, err := tx.ExecContext(ctx, createStmt); err != nil {
		return LoadStats{}, fmt.Errorf("create table: %w", err)
	}

	insertStmt := insertStatement(l.table, table.Columns)
	stmt, err := tx.PrepareContext(ctx, insertStmt)
	if err != nil {
		return LoadStats{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return LoadStats{}, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(table.Columns))
		}
		if _, err := stmt.ExecContext(ctx, rowArgs(table.Columns, row)...); err != nil {
			return LoadStats{}, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	for _, column := range indexedColumns {
		indexStmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)", l.table, column, l.table, column)
		if _, err := tx.ExecContext(ctx, indexStmt); err != nil {
			return LoadStats{}, fmt.Errorf("create index on %s: %w", column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return LoadStats{}, fmt.Errorf("commit: %w", err)
	}

	return LoadStats{Rows: len(table.Rows), Columns: len(table.Columns)}, nil
}

// Validate counts the loaded rows and compares against the export table.
func (l Loader) Validate(ctx context.Context, table specs.TableSpec) (LoadStats, error) {
	var rows int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", l.table)
	if err := l.db.QueryRowContext(ctx, query).Scan(&rows); err != nil {
		return LoadStats{}, fmt.Errorf("count rows: %w", err)
	}
	if rows != len(table.Rows) {
		return LoadStats{}, fmt.Errorf("loaded %d rows, export table has %d", rows, len(table.Rows))
	}
	return LoadStats{Rows: rows, Columns: len(table.Columns)}, nil
}

func createTableStatement(table string, columns []specs.ColumnSpec) (string, error) {
	defs := make([]string, len(columns))
	for i, col := range columns {
		sqlType, ok := columnTypes[col.Type]
		if !ok {
			return "", fmt.Errorf("column %s has unknown type %q", col.Name, col.Type)
		}
		defs[i] = fmt.Sprintf("%s %s", col.Name, sqlType)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", ")), nil
}

func insertStatement(table string, columns []specs.ColumnSpec) string {
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
}

// rowArgs converts string cells to SQL arguments. The empty string means NULL
// for typed columns; text columns keep it as an honest empty string only when
// the source field is non-nullable, which for this schema is never the case,
// so empty always loads as NULL.
func rowArgs(columns []specs.ColumnSpec, row []string) []any {
	args := make([]any, len(row))
	for i, cell := range row {
		if cell == "" {
			args[i] = nil
			continue
		}
		args[i] = cell
	}
	return args
}
