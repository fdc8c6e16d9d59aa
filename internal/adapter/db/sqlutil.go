package db

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/islamic-sources/internal/core"
)

// store holds the shared driver used by every repository.
type store struct {
	drv *sql.Driver
	now func() time.Time
}

func newStore(drv *sql.Driver) store {
	return store{drv: drv, now: time.Now}
}

func (s store) builder() *sql.DialectBuilder {
	return sql.Dialect(s.drv.Dialect())
}

func (s store) postgres() bool {
	return s.drv.Dialect() == dialect.Postgres
}

func (s store) timestamp() time.Time {
	return s.now().UTC()
}

// withTx runs fn inside a transaction, rolling back on error.
func (s store) withTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}
	return tx.Commit()
}

func queryRows(ctx context.Context, ex dialect.ExecQuerier, q sql.Querier, scan func(rows *sql.Rows) error) error {
	stmt, args := q.Query()
	rows := &sql.Rows{}
	if err := ex.Query(ctx, stmt, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func execStmt(ctx context.Context, ex dialect.ExecQuerier, q sql.Querier) (int64, error) {
	stmt, args := q.Query()
	var res stdsql.Result
	if err := ex.Exec(ctx, stmt, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func queryInt(ctx context.Context, ex dialect.ExecQuerier, q sql.Querier) (int, error) {
	var n int64
	err := queryRows(ctx, ex, q, func(rows *sql.Rows) error {
		return rows.Scan(&n)
	})
	return int(n), err
}

func queryIDs(ctx context.Context, ex dialect.ExecQuerier, q sql.Querier) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := queryRows(ctx, ex, q, func(rows *sql.Rows) error {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

// deleteIn removes rows of table whose column matches any of ids.
func (s store) deleteIn(ctx context.Context, ex dialect.ExecQuerier, table, column string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := execStmt(ctx, ex, s.builder().Delete(table).Where(sql.In(column, uuidArgs(ids)...)))
	return err
}

func uuidArgs(ids []uuid.UUID) []any {
	return lo.Map(ids, func(id uuid.UUID, _ int) any { return id })
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringPtr(ns stdsql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func float64Ptr(nf stdsql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func intPtr(ni stdsql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

func timePtr(nt stdsql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func encodeStrings(values []string) (any, error) {
	if values == nil {
		return nil, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func decodeStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func queryAll[T any](ctx context.Context, ex dialect.ExecQuerier, q sql.Querier, scan func(rows *sql.Rows) (T, error)) ([]T, error) {
	var out []T
	err := queryRows(ctx, ex, q, func(rows *sql.Rows) error {
		v, err := scan(rows)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// queryOne returns the first row of q, or core.ErrNotFound when there is none.
func queryOne[T any](ctx context.Context, ex dialect.ExecQuerier, q sql.Querier, scan func(rows *sql.Rows) (T, error)) (*T, error) {
	all, err := queryAll(ctx, ex, q, scan)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, core.ErrNotFound
	}
	return &all[0], nil
}
