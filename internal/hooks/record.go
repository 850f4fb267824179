package hooks

import "context"

type SlugFinder[T any] interface {
	FindBySlug(ctx context.Context, slug string) (*T, error)
}

// Record binds a single record by slug. A nil Data means not found.
type Record[T any] struct {
	*Binding[string, *T]
}

func NewRecord[T any](src SlugFinder[T], slug string, opts ...Option) *Record[T] {
	return &Record[T]{Binding: NewBinding(Fetcher[string, *T](src.FindBySlug), slug, opts...)}
}

func (r *Record[T]) Slug() string {
	return r.Key()
}
