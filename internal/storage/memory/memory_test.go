package memory_test

import (
	"context"
	"testing"
	"time"

	"devmart/internal/storage"
	"devmart/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_RowsAreJSONShaped(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	created := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	out, err := s.Insert(ctx, "projects", storage.Row{
		"id":         "p1",
		"slug":       "shop",
		"order":      3,
		"tech":       []string{"go"},
		"created_at": created,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(3), out["order"])
	assert.Equal(t, []any{"go"}, out["tech"])
	assert.Equal(t, "2024-02-03T04:05:06Z", out["created_at"])
}

func TestStorage_ReturnsCopies(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	out, err := s.Insert(ctx, "faqs", storage.Row{"id": "f1", "slug": "q"})
	require.NoError(t, err)
	out["slug"] = "mutated"

	rows, err := s.Select(ctx, storage.Query{Table: "faqs"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "q", rows[0]["slug"])
}

func TestStorage_QueryComposition(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, r := range []storage.Row{
		{"id": "1", "slug": "a", "status": "draft", "title": "Alpha", "tags": []string{"go"}},
		{"id": "2", "slug": "b", "status": "published", "title": "Beta", "tags": []string{"css"}},
		{"id": "3", "slug": "c", "status": "published", "title": "Gamma alpha", "tags": []string{"go", "css"}},
	} {
		r["date"] = base.Add(time.Duration(i) * time.Hour)
		_, err := s.Insert(ctx, "blog_posts", r)
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		q    storage.Query
		want []string
	}{
		{name: "all newest first", q: storage.Query{OrderBy: "date"}, want: []string{"3", "2", "1"}},
		{name: "equality", q: storage.Query{Eq: map[string]any{"status": "published"}, OrderBy: "date"}, want: []string{"3", "2"}},
		{name: "search", q: storage.Query{Search: &storage.Search{Term: "ALPHA", Columns: []string{"title"}}, OrderBy: "date"}, want: []string{"3", "1"}},
		{name: "overlap", q: storage.Query{Overlap: map[string][]string{"tags": {"go"}}, OrderBy: "date"}, want: []string{"3", "1"}},
		{name: "limit offset", q: storage.Query{OrderBy: "date", Limit: 1, Offset: 1}, want: []string{"2"}},
		{name: "offset past end", q: storage.Query{OrderBy: "date", Offset: 10}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.q.Table = "blog_posts"
			rows, err := s.Select(ctx, tt.q)
			require.NoError(t, err)

			ids := make([]string, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r["id"].(string))
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStorage_TiesOrderByID(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"b", "d", "a", "e", "c"} {
		_, err := s.Insert(ctx, "leads", storage.Row{"id": id, "created_at": created})
		require.NoError(t, err)
	}

	var ids []string
	for offset := uint64(0); offset < 5; offset += 2 {
		rows, err := s.Select(ctx, storage.Query{Table: "leads", OrderBy: "created_at", Limit: 2, Offset: offset})
		require.NoError(t, err)
		for _, r := range rows {
			ids = append(ids, r["id"].(string))
		}
	}

	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, ids)
}

func TestStorage_Errors(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	_, err := s.Insert(ctx, "services", storage.Row{"id": "1", "slug": "x"})
	require.NoError(t, err)

	_, err = s.Insert(ctx, "services", storage.Row{"id": "2", "slug": "x"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = s.Update(ctx, "services", "missing", storage.Row{"slug": "y"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "services", "missing"), storage.ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Select(cancelled, storage.Query{Table: "services"})
	assert.ErrorIs(t, err, context.Canceled)
}
