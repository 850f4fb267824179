package hooks

import (
	"context"
)

// Page is one fetched window of a listing plus the total matching count.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Lister is the read side of a repository a List binds to.
type Lister[T any, F any] interface {
	FindAll(ctx context.Context, f F) ([]T, error)
	Count(ctx context.Context, f F) (int, error)
}

// List binds a filtered listing.
type List[T any, F any] struct {
	*Binding[F, Page[T]]
}

func NewList[T any, F any](src Lister[T, F], filter F, opts ...Option) *List[T, F] {
	fetch := func(ctx context.Context, f F) (Page[T], error) {
		items, err := src.FindAll(ctx, f)
		if err != nil {
			return Page[T]{}, err
		}

		total, err := src.Count(ctx, f)
		if err != nil {
			return Page[T]{}, err
		}

		return Page[T]{Items: items, Total: total}, nil
	}

	return &List[T, F]{Binding: NewBinding(fetch, filter, opts...)}
}

func (l *List[T, F]) Filter() F {
	return l.Key()
}

// SetFilter refetches only when f differs from the current filter by value.
func (l *List[T, F]) SetFilter(f F) bool {
	return l.SetKey(f)
}
