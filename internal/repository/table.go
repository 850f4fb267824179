package repository

import (
	"context"
	"time"

	"devmart/internal/lib/actor"
	"devmart/internal/lib/retry"
	"devmart/internal/storage"

	"github.com/google/uuid"
)

// table routes every store call for one entity through the retrier and
// wraps failures into *Error.
type table struct {
	entity string
	name   string
	store  storage.Store
	retry  *retry.Retrier
}

func newTable(entity, name string, store storage.Store, r *retry.Retrier) table {
	return table{entity: entity, name: name, store: store, retry: r}
}

func (t table) opName(op string) string {
	return "repository." + t.entity + "." + op
}

func (t table) fail(op string, err error) error {
	return wrap(t.entity, op, err)
}

func (t table) insert(ctx context.Context, op string, row storage.Row) (storage.Row, error) {
	out, err := retry.Value(ctx, t.retry, t.opName(op), func(ctx context.Context) (storage.Row, error) {
		return t.store.Insert(ctx, t.name, row)
	})
	if err != nil {
		return nil, t.fail(op, err)
	}

	return out, nil
}

func (t table) selectRows(ctx context.Context, op string, q storage.Query) ([]storage.Row, error) {
	q.Table = t.name

	rows, err := retry.Value(ctx, t.retry, t.opName(op), func(ctx context.Context) ([]storage.Row, error) {
		return t.store.Select(ctx, q)
	})
	if err != nil {
		return nil, t.fail(op, err)
	}

	return rows, nil
}

// one returns the first row where col equals val, or nil when there is none.
func (t table) one(ctx context.Context, op, col string, val any) (storage.Row, error) {
	rows, err := t.selectRows(ctx, op, storage.Query{
		Eq:    map[string]any{col: val},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0], nil
}

func (t table) count(ctx context.Context, op string, q storage.Query) (int, error) {
	q.Table = t.name
	q.Limit, q.Offset, q.OrderBy = 0, 0, ""

	n, err := retry.Value(ctx, t.retry, t.opName(op), func(ctx context.Context) (int, error) {
		return t.store.Count(ctx, q)
	})
	if err != nil {
		return 0, t.fail(op, err)
	}

	return n, nil
}

func (t table) update(ctx context.Context, op, id string, row storage.Row) (storage.Row, error) {
	out, err := retry.Value(ctx, t.retry, t.opName(op), func(ctx context.Context) (storage.Row, error) {
		return t.store.Update(ctx, t.name, id, row)
	})
	if err != nil {
		return nil, t.fail(op, err)
	}

	return out, nil
}

func (t table) remove(ctx context.Context, op, id string) error {
	err := t.retry.Do(ctx, t.opName(op), func(ctx context.Context) error {
		return t.store.Delete(ctx, t.name, id)
	})
	if err != nil {
		return t.fail(op, err)
	}

	return nil
}

// validID reports whether id can name a stored row. Ids are UUIDs; anything
// else cannot match and is treated as a miss without a round trip.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func now() time.Time {
	return time.Now().UTC()
}

// stampCreate fills id, timestamps and actor columns for a new row.
func stampCreate(ctx context.Context, row storage.Row) storage.Row {
	ts := now()

	row["id"] = uuid.NewString()
	row["created_at"] = ts
	row["updated_at"] = ts

	if id, ok := actor.FromContext(ctx); ok {
		row["created_by"] = id
		row["updated_by"] = id
	}

	return row
}

func stampUpdate(ctx context.Context, row storage.Row) storage.Row {
	row["updated_at"] = now()

	if id, ok := actor.FromContext(ctx); ok {
		row["updated_by"] = id
	}

	return row
}

func page(limit, offset int) (uint64, uint64) {
	var l, o uint64
	if limit > 0 {
		l = uint64(limit)
	}
	if offset > 0 {
		o = uint64(offset)
	}

	return l, o
}
