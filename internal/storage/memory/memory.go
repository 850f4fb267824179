package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"devmart/internal/storage"
)

// Storage is an in-process remote store. Rows are normalized through JSON on
// the way in, so readers observe the same value shapes as the SQL store.
type Storage struct {
	mu     sync.RWMutex
	tables map[string]map[string]storage.Row
	unique map[string][]string
}

var _ storage.Store = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		tables: make(map[string]map[string]storage.Row),
		unique: map[string][]string{
			"users":        {"email"},
			"services":     {"slug"},
			"projects":     {"slug"},
			"blog_posts":   {"slug"},
			"faqs":         {"slug"},
			"team_members": {"slug"},
		},
	}
}

func (s *Storage) Insert(ctx context.Context, table string, row storage.Row) (storage.Row, error) {
	const op = "storage.memory.Insert"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	normalized, err := normalize(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, _ := normalized["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%s: row without id", op)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.table(table)
	if _, ok := rows[id]; ok {
		return nil, fmt.Errorf("%s: id %s: %w", op, id, storage.ErrConflict)
	}
	if err := s.checkUnique(table, id, normalized); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows[id] = normalized

	return clone(normalized), nil
}

func (s *Storage) Select(ctx context.Context, q storage.Query) ([]storage.Row, error) {
	const op = "storage.memory.Select"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	matched := s.match(q)
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if q.OrderBy != "" {
			a, b := matched[i][q.OrderBy], matched[j][q.OrderBy]
			if less(b, a) {
				return true
			}
			if less(a, b) {
				return false
			}
		}
		return less(matched[j]["id"], matched[i]["id"])
	})

	if q.Offset > 0 {
		if q.Offset >= uint64(len(matched)) {
			return []storage.Row{}, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < uint64(len(matched)) {
		matched = matched[:q.Limit]
	}

	out := make([]storage.Row, 0, len(matched))
	for _, row := range matched {
		out = append(out, clone(row))
	}

	return out, nil
}

func (s *Storage) Count(ctx context.Context, q storage.Query) (int, error) {
	const op = "storage.memory.Count"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.match(q)), nil
}

func (s *Storage) Update(ctx context.Context, table, id string, row storage.Row) (storage.Row, error) {
	const op = "storage.memory.Update"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	patch, err := normalize(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.table(table)[id]
	if !ok {
		return nil, fmt.Errorf("%s: %s %s: %w", op, table, id, storage.ErrNotFound)
	}

	updated := clone(existing)
	for k, v := range patch {
		if k == "id" {
			continue
		}
		updated[k] = v
	}

	if err := s.checkUnique(table, id, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.table(table)[id] = updated

	return clone(updated), nil
}

func (s *Storage) Delete(ctx context.Context, table, id string) error {
	const op = "storage.memory.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.table(table)
	if _, ok := rows[id]; !ok {
		return fmt.Errorf("%s: %s %s: %w", op, table, id, storage.ErrNotFound)
	}
	delete(rows, id)

	return nil
}

func (s *Storage) table(name string) map[string]storage.Row {
	rows, ok := s.tables[name]
	if !ok {
		rows = make(map[string]storage.Row)
		s.tables[name] = rows
	}

	return rows
}

func (s *Storage) checkUnique(table, id string, row storage.Row) error {
	for _, col := range s.unique[table] {
		val, ok := row[col]
		if !ok || val == nil {
			continue
		}
		for otherID, other := range s.tables[table] {
			if otherID != id && other[col] == val {
				return fmt.Errorf("%s.%s %v: %w", table, col, val, storage.ErrConflict)
			}
		}
	}

	return nil
}

func (s *Storage) match(q storage.Query) []storage.Row {
	var out []storage.Row

	for _, row := range s.tables[q.Table] {
		if matches(row, q) {
			out = append(out, row)
		}
	}

	return out
}

func matches(row storage.Row, q storage.Query) bool {
	for col, want := range q.Eq {
		if !equal(row[col], want) {
			return false
		}
	}

	if q.Search != nil {
		term := strings.ToLower(strings.TrimSpace(q.Search.Term))
		if term != "" {
			found := false
			for _, col := range q.Search.Columns {
				if str, ok := row[col].(string); ok && strings.Contains(strings.ToLower(str), term) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}

	for col, want := range q.Overlap {
		if len(want) == 0 {
			continue
		}
		if !overlaps(row[col], want) {
			return false
		}
	}

	return true
}

func equal(have, want any) bool {
	switch w := want.(type) {
	case int:
		f, ok := have.(float64)
		return ok && f == float64(w)
	case int64:
		f, ok := have.(float64)
		return ok && f == float64(w)
	default:
		return have == want
	}
}

func overlaps(have any, want []string) bool {
	items, ok := have.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			continue
		}
		for _, w := range want {
			if str == w {
				return true
			}
		}
	}

	return false
}

// less orders timestamps chronologically, numbers numerically and everything
// else lexically. Nil sorts first.
func less(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b != nil
	case float64:
		bv, ok := b.(float64)
		return ok && av < bv
	case string:
		bv, ok := b.(string)
		if !ok {
			return false
		}
		at, aErr := time.Parse(time.RFC3339Nano, av)
		bt, bErr := time.Parse(time.RFC3339Nano, bv)
		if aErr == nil && bErr == nil {
			return at.Before(bt)
		}
		return av < bv
	default:
		return false
	}
}

func normalize(row storage.Row) (storage.Row, error) {
	b, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}

	var out storage.Row
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}

	return out, nil
}

func clone(row storage.Row) storage.Row {
	out, err := normalize(row)
	if err != nil {
		return storage.Row{}
	}

	return out
}
