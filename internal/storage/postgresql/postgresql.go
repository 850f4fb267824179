package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"

	"devmart/internal/storage"
)

// Storage is the PostgreSQL backed remote store. Rows travel as row_to_json
// documents so callers see the same shapes a REST data API would return.
type Storage struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

var _ storage.Store = (*Storage)(nil)

func New(ctx context.Context, dsn string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewWithPool(db), nil
}

func NewWithPool(db *pgxpool.Pool) *Storage {
	return &Storage{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *Storage) Stop() {
	s.db.Close()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Migrate creates the tables when they do not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgresql.Migrate"

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Insert(ctx context.Context, table string, row storage.Row) (storage.Row, error) {
	const op = "storage.postgresql.Insert"

	cols, vals, err := columns(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := s.sb.Insert(pq.QuoteIdentifier(table) + " AS t").
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING row_to_json(t)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	out, err := s.queryRow(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) Select(ctx context.Context, q storage.Query) ([]storage.Row, error) {
	const op = "storage.postgresql.Select"

	inner := sq.Select("*").From(pq.QuoteIdentifier(q.Table))
	if cond := where(q); len(cond) > 0 {
		inner = inner.Where(cond)
	}
	inner = inner.OrderBy(orderBy("", q.OrderBy)...)
	if q.Limit > 0 {
		inner = inner.Limit(q.Limit)
	}
	if q.Offset > 0 {
		inner = inner.Offset(q.Offset)
	}

	outer := s.sb.Select("row_to_json(t)").FromSelect(inner, "t")
	outer = outer.OrderBy(orderBy("t.", q.OrderBy)...)

	query, args, err := outer.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer rows.Close()

	result := make([]storage.Row, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", op, mapError(err))
		}

		row, err := decodeRow(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return result, nil
}

func (s *Storage) Count(ctx context.Context, q storage.Query) (int, error) {
	const op = "storage.postgresql.Count"

	builder := s.sb.Select("COUNT(*)").From(pq.QuoteIdentifier(q.Table))
	if cond := where(q); len(cond) > 0 {
		builder = builder.Where(cond)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var count int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return count, nil
}

func (s *Storage) Update(ctx context.Context, table, id string, row storage.Row) (storage.Row, error) {
	const op = "storage.postgresql.Update"

	cols, vals, err := columns(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%s: no fields to update", op)
	}

	builder := s.sb.Update(pq.QuoteIdentifier(table) + " AS t")
	for i, col := range cols {
		builder = builder.Set(col, vals[i])
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING row_to_json(t)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	out, err := s.queryRow(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) Delete(ctx context.Context, table, id string) error {
	const op = "storage.postgresql.Delete"

	query, args, err := s.sb.Delete(pq.QuoteIdentifier(table)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	result, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %s %s: %w", op, table, id, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) queryRow(ctx context.Context, query string, args []interface{}) (storage.Row, error) {
	var raw []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		return nil, mapError(err)
	}

	return decodeRow(raw)
}

func decodeRow(raw []byte) (storage.Row, error) {
	var row storage.Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}

	return row, nil
}

// columns returns quoted column names in a stable order with values ready for
// pgx: maps become JSON documents, []any becomes []string.
func columns(row storage.Row) ([]string, []interface{}, error) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]string, 0, len(keys))
	vals := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		v, err := toParam(row[k])
		if err != nil {
			return nil, nil, fmt.Errorf("column %s: %w", k, err)
		}
		cols = append(cols, pq.QuoteIdentifier(k))
		vals = append(vals, v)
	}

	return cols, vals, nil
}

func toParam(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any, map[string]string:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out, nil
	default:
		return v, nil
	}
}

func where(q storage.Query) sq.And {
	var cond sq.And

	eqKeys := make([]string, 0, len(q.Eq))
	for k := range q.Eq {
		eqKeys = append(eqKeys, k)
	}
	sort.Strings(eqKeys)
	for _, k := range eqKeys {
		cond = append(cond, sq.Eq{pq.QuoteIdentifier(k): q.Eq[k]})
	}

	if q.Search != nil && strings.TrimSpace(q.Search.Term) != "" && len(q.Search.Columns) > 0 {
		pattern := "%" + escapeLike(strings.TrimSpace(q.Search.Term)) + "%"
		var or sq.Or
		for _, col := range q.Search.Columns {
			or = append(or, sq.ILike{pq.QuoteIdentifier(col): pattern})
		}
		cond = append(cond, or)
	}

	ovKeys := make([]string, 0, len(q.Overlap))
	for k := range q.Overlap {
		ovKeys = append(ovKeys, k)
	}
	sort.Strings(ovKeys)
	for _, k := range ovKeys {
		if len(q.Overlap[k]) == 0 {
			continue
		}
		cond = append(cond, sq.Expr(pq.QuoteIdentifier(k)+" && ?", q.Overlap[k]))
	}

	return cond
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: %w", storage.ErrConflict, err)
		case pgErr.Code == "42501":
			return fmt.Errorf("%w: %w", storage.ErrUnauthorized, err)
		case pgErr.Code == "40001", pgErr.Code == "40P01",
			strings.HasPrefix(pgErr.Code, "08"),
			strings.HasPrefix(pgErr.Code, "53"),
			strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
		}
		return err
	}

	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	return err
}

// orderBy sorts newest first with the id as tie-break so pages are stable.
func orderBy(prefix, column string) []string {
	var out []string
	if column != "" {
		out = append(out, prefix+pq.QuoteIdentifier(column)+" DESC")
	}

	return append(out, prefix+pq.QuoteIdentifier("id")+" DESC")
}
