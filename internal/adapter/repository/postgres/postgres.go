// Package postgres implements the entry stores on top of PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/nhood/internal/entity"
)

// table wraps the queries shared by every entry table. Entry-specific queries
// live in the repositories.
type table struct {
	db   *sqlx.DB
	name string
}

func (t table) findAll(ctx context.Context, dest any) error {
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY id`, t.name)
	return t.db.SelectContext(ctx, dest, query)
}

func (t table) get(ctx context.Context, dest any, query string, args ...any) error {
	if err := t.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrEntryNotFound
		}

		return err
	}

	return nil
}

func (t table) findByID(ctx context.Context, dest any, id int64) error {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1`, t.name)
	return t.get(ctx, dest, query, id)
}

func (t table) delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name)

	res, err := t.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get number of affected rows: %w", err)
	}

	if rowsAffected != 1 {
		return entity.ErrEntryNotFound
	}

	return nil
}

func (t table) count(ctx context.Context) (int64, error) {
	var n int64

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.name)
	if err := t.db.GetContext(ctx, &n, query); err != nil {
		return 0, err
	}

	return n, nil
}
