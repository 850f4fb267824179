package repository

import (
	"fmt"
	"time"

	"devmart/internal/storage"
)

// rowReader narrows a JSON shaped row into typed fields. Every problem is
// recorded and reported at once by err.
type rowReader struct {
	row      storage.Row
	problems []string
}

func newRowReader(row storage.Row) *rowReader {
	return &rowReader{row: row}
}

func (r *rowReader) fail(col, format string, args ...any) {
	r.problems = append(r.problems, col+": "+fmt.Sprintf(format, args...))
}

func (r *rowReader) value(col string, required bool) (any, bool) {
	v, ok := r.row[col]
	if !ok {
		if required {
			r.fail(col, "missing")
		}
		return nil, false
	}
	if v == nil {
		if required {
			r.fail(col, "is null")
		}
		return nil, false
	}

	return v, true
}

func (r *rowReader) str(col string) string {
	v, ok := r.value(col, true)
	if !ok {
		return ""
	}

	s, ok := v.(string)
	if !ok {
		r.fail(col, "expected string, got %T", v)
	}

	return s
}

// text reads a nullable text column, treating null as empty.
func (r *rowReader) text(col string) string {
	if s := r.optStr(col); s != nil {
		return *s
	}

	return ""
}

func (r *rowReader) optStr(col string) *string {
	v, ok := r.value(col, false)
	if !ok {
		return nil
	}

	s, ok := v.(string)
	if !ok {
		r.fail(col, "expected string, got %T", v)
		return nil
	}

	return &s
}

func (r *rowReader) boolean(col string) bool {
	v, ok := r.value(col, true)
	if !ok {
		return false
	}

	b, ok := v.(bool)
	if !ok {
		r.fail(col, "expected bool, got %T", v)
	}

	return b
}

func (r *rowReader) integer(col string) int {
	v, ok := r.value(col, true)
	if !ok {
		return 0
	}

	return r.toInt(col, v)
}

func (r *rowReader) optInt(col string) *int {
	v, ok := r.value(col, false)
	if !ok {
		return nil
	}

	n := r.toInt(col, v)

	return &n
}

func (r *rowReader) toInt(col string, v any) int {
	f, ok := v.(float64)
	if !ok {
		r.fail(col, "expected number, got %T", v)
		return 0
	}
	if f != float64(int(f)) {
		r.fail(col, "expected integer, got %v", f)
	}

	return int(f)
}

func (r *rowReader) timestamp(col string) time.Time {
	s := r.str(col)
	if s == "" {
		return time.Time{}
	}

	t, err := parseTime(s)
	if err != nil {
		r.fail(col, "invalid timestamp %q", s)
	}

	return t
}

func (r *rowReader) strings(col string) []string {
	v, ok := r.value(col, false)
	if !ok {
		return []string{}
	}

	items, ok := v.([]any)
	if !ok {
		r.fail(col, "expected array, got %T", v)
		return []string{}
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			r.fail(col, "element %d: expected string, got %T", i, item)
			continue
		}
		out = append(out, s)
	}

	return out
}

func (r *rowReader) stringMap(col string) map[string]string {
	v, ok := r.value(col, false)
	if !ok {
		return map[string]string{}
	}

	items, ok := v.(map[string]any)
	if !ok {
		r.fail(col, "expected object, got %T", v)
		return map[string]string{}
	}

	out := make(map[string]string, len(items))
	for k, item := range items {
		s, ok := item.(string)
		if !ok {
			r.fail(col, "key %s: expected string, got %T", k, item)
			continue
		}
		out[k] = s
	}

	return out
}

func (r *rowReader) err() error {
	if len(r.problems) == 0 {
		return nil
	}

	return &ShapeError{Problems: r.problems}
}

// parseTime accepts RFC 3339 as well as the offset form Postgres emits from
// row_to_json for timestamptz columns.
func parseTime(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999-07",
		"2006-01-02T15:04:05.999999999",
	}

	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, err
}
