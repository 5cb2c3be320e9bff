package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/listing"
	"github.com/BradenHooton/educenter/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// table holds the reads and deletes every entity repository shares.
// name, view and columns are package constants, never user input.
// Reads go through view, which may add joined columns to the base table.
type table[T any] struct {
	pool    *pgxpool.Pool
	name    string
	view    string
	columns string
	scan    func(rowScanner) (*T, error)
}

func newTable[T any](db *database.DB, name, columns string, scan func(rowScanner) (*T, error)) *table[T] {
	return &table[T]{pool: db.Pool, name: name, view: name, columns: columns, scan: scan}
}

// readFrom makes every read of t select from view instead of the base table
func (t *table[T]) readFrom(view string) *table[T] {
	t.view = view
	return t
}

// scanRows iterates through rows and scans each into a model
func (t *table[T]) scanRows(rows pgx.Rows) ([]*T, error) {
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.name, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.name, err)
	}

	return items, nil
}

func (t *table[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	return t.findByField(ctx, "id", id)
}

// findByField loads the single row whose column equals value
func (t *table[T]) findByField(ctx context.Context, column string, value any) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 LIMIT 1`, t.columns, t.view, column)
	return t.scan(t.pool.QueryRow(ctx, query, value))
}

// writeAndLoad runs an INSERT or UPDATE that returns the row id, then loads
// the row through the view so joined columns are filled in
func (t *table[T]) writeAndLoad(ctx context.Context, query string, args ...any) (*T, error) {
	var id int64
	if err := t.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return t.GetByID(ctx, id)
}

// Count returns the number of rows matching the query filters
func (t *table[T]) Count(ctx context.Context, q listing.Query) (int64, error) {
	where, args := q.Where(1)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, t.view, where)

	var count int64
	if err := t.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

// FindPage returns one page of rows in the query order
func (t *table[T]) FindPage(ctx context.Context, q listing.Query) ([]*T, error) {
	where, args := q.Where(1)
	query := fmt.Sprintf(`SELECT %s FROM %s %s %s LIMIT $%d OFFSET $%d`,
		t.columns, t.view, where, q.OrderBy(), len(args)+1, len(args)+2)

	rows, err := t.pool.Query(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, database.MapPostgresError(err))
	}
	return t.scanRows(rows)
}

func (t *table[T]) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)

	result, err := t.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
