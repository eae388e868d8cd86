package infra

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisconley/payflow/specs"
)

func newMockLoader(t *testing.T) (Loader, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLoader(db, "payments_analytics"), mock
}

func smallTable() specs.TableSpec {
	return specs.TableSpec{
		Columns: []specs.ColumnSpec{
			{Name: "subscription_id", Type: "text"},
			{Name: "mrr_at_risk", Type: "decimal"},
		},
		Rows: [][]string{
			{"sub-001", "10.00"},
			{"sub-002", ""},
		},
	}
}

func TestLoaderReplace(t *testing.T) {
	t.Run("replaces the table inside one transaction", func(t *testing.T) {
		// Arrange
		loader, mock := newMockLoader(t)
		table := smallTable()

		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS payments_analytics").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE payments_analytics (subscription_id TEXT, mrr_at_risk NUMERIC(12,2))").
			WillReturnResult(sqlmock.NewResult(0, 0))
		insert := mock.ExpectPrepare("INSERT INTO payments_analytics (subscription_id, mrr_at_risk) VALUES ($1, $2)")
		insert.ExpectExec().
			WithArgs("sub-001", "10.00").
			WillReturnResult(sqlmock.NewResult(0, 1))
		insert.ExpectExec().
			WithArgs("sub-002", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		for _, column := range indexedColumns {
			mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_payments_analytics_" + column +
				" ON payments_analytics (" + column + ")").
				WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectCommit()

		// Act
		stats, err := loader.Replace(context.Background(), table)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, LoadStats{Rows: 2, Columns: 2}, stats)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loads empty cells as NULL", func(t *testing.T) {
		// Arrange & Act
		args := rowArgs(smallTable().Columns, []string{"sub-002", ""})

		// Assert
		assert.Equal(t, []any{"sub-002", nil}, args)
	})

	t.Run("rolls back when an insert fails", func(t *testing.T) {
		// Arrange
		loader, mock := newMockLoader(t)
		table := smallTable()

		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS payments_analytics").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE payments_analytics (subscription_id TEXT, mrr_at_risk NUMERIC(12,2))").
			WillReturnResult(sqlmock.NewResult(0, 0))
		insert := mock.ExpectPrepare("INSERT INTO payments_analytics (subscription_id, mrr_at_risk) VALUES ($1, $2)")
		insert.ExpectExec().
			WithArgs("sub-001", "10.00").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		// Act
		_, err := loader.Replace(context.Background(), table)

		// Assert
		assert.ErrorContains(t, err, "insert row 0")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a row with the wrong cell count", func(t *testing.T) {
		// Arrange
		loader, mock := newMockLoader(t)
		table := smallTable()
		table.Rows[1] = []string{"sub-002"}

		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS payments_analytics").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE payments_analytics (subscription_id TEXT, mrr_at_risk NUMERIC(12,2))").
			WillReturnResult(sqlmock.NewResult(0, 0))
		insert := mock.ExpectPrepare("INSERT INTO payments_analytics (subscription_id, mrr_at_risk) VALUES ($1, $2)")
		insert.ExpectExec().
			WithArgs("sub-001", "10.00").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		// Act
		_, err := loader.Replace(context.Background(), table)

		// Assert
		assert.ErrorContains(t, err, "row 1 has 1 cells, want 2")
	})

	t.Run("rejects an unknown column type", func(t *testing.T) {
		// Arrange
		loader, mock := newMockLoader(t)
		table := smallTable()
		table.Columns[1].Type = "jsonb"

		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS payments_analytics").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		// Act
		_, err := loader.Replace(context.Background(), table)

		// Assert
		assert.ErrorContains(t, err, `unknown type "jsonb"`)
	})
}

func TestLoaderValidate(t *testing.T) {
	t.Run("passes when the row counts match", func(t *testing.T) {
		// Arrange
		loader, mock := newMockLoader(t)
		table := smallTable()

		mock.ExpectQuery("SELECT COUNT(*) FROM payments_analytics").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		// Act
		stats, err := loader.Validate(context.Background(), table)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, LoadStats{Rows: 2, Columns: 2}, stats)
	})

	t.Run("fails when rows went missing", func(t *testing.T) {
		// Arrange
		loader, mock := newMockLoader(t)
		table := smallTable()

		mock.ExpectQuery("SELECT COUNT(*) FROM payments_analytics").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		// Act
		_, err := loader.Validate(context.Background(), table)

		// Assert
		assert.ErrorContains(t, err, "loaded 1 rows, export table has 2")
	})
}
