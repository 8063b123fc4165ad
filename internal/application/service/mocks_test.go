package service

import (
	"context"
	"io"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

type mockReceiptCache struct {
	mock.Mock
}

func (m *mockReceiptCache) Get(ctx context.Context, projectCode string, receiptID uint64) (*entity.PublicReceipt, error) {
	args := m.Called(ctx, projectCode, receiptID)
	view, _ := args.Get(0).(*entity.PublicReceipt)
	return view, args.Error(1)
}

func (m *mockReceiptCache) Set(ctx context.Context, view *entity.PublicReceipt) error {
	return m.Called(ctx, view).Error(0)
}

func (m *mockReceiptCache) InvalidateProject(ctx context.Context, projectCode string) error {
	return m.Called(ctx, projectCode).Error(0)
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, r, size, contentType)
	return args.String(0), args.Error(1)
}

type mockPrinter struct {
	mock.Mock
}

func (m *mockPrinter) Print(ctx context.Context, data []byte) error {
	return m.Called(ctx, data).Error(0)
}

func (m *mockPrinter) Ready(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}
