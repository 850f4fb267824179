package hooks

import "context"

type Mutator[T any, In any] interface {
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id string, in In) (*T, error)
	Delete(ctx context.Context, id string) error
}

type Source[T any, F any, In any] interface {
	Lister[T, F]
	SlugFinder[T]
	Mutator[T, In]
}

// CRUD is a List with typed mutations. Each mutation refetches the list
// with its current filter before returning.
type CRUD[T any, F any, In any] struct {
	*List[T, F]
	src Mutator[T, In]
}

func NewCRUD[T any, F any, In any](src Source[T, F, In], filter F, opts ...Option) *CRUD[T, F, In] {
	return &CRUD[T, F, In]{
		List: NewList[T, F](src, filter, opts...),
		src:  src,
	}
}

func (c *CRUD[T, F, In]) Create(ctx context.Context, in In) (*T, error) {
	return mutateRecord(ctx, c.Mutate, func(ctx context.Context) (*T, error) {
		return c.src.Create(ctx, in)
	})
}

func (c *CRUD[T, F, In]) Update(ctx context.Context, id string, in In) (*T, error) {
	return mutateRecord(ctx, c.Mutate, func(ctx context.Context) (*T, error) {
		return c.src.Update(ctx, id, in)
	})
}

func (c *CRUD[T, F, In]) Delete(ctx context.Context, id string) error {
	return c.Mutate(ctx, func(ctx context.Context) error {
		return c.src.Delete(ctx, id)
	})
}

func mutateRecord[T any](
	ctx context.Context,
	mutate func(context.Context, func(context.Context) error) error,
	op func(ctx context.Context) (*T, error),
) (*T, error) {
	var out *T

	err := mutate(ctx, func(ctx context.Context) error {
		rec, err := op(ctx)
		out = rec
		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
