package repository_test

import (
	"context"

	"devmart/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, table string, row storage.Row) (storage.Row, error) {
	args := m.Called(ctx, table, row)
	out, _ := args.Get(0).(storage.Row)
	return out, args.Error(1)
}

func (m *MockStore) Select(ctx context.Context, q storage.Query) ([]storage.Row, error) {
	args := m.Called(ctx, q)
	out, _ := args.Get(0).([]storage.Row)
	return out, args.Error(1)
}

func (m *MockStore) Count(ctx context.Context, q storage.Query) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, table, id string, row storage.Row) (storage.Row, error) {
	args := m.Called(ctx, table, id, row)
	out, _ := args.Get(0).(storage.Row)
	return out, args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, table, id string) error {
	args := m.Called(ctx, table, id)
	return args.Error(0)
}
