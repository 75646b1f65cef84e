package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
	"github.com/tldev36/ECommerce-sub001/internal/infra"
	"github.com/tldev36/ECommerce-sub001/internal/repository"
)

// FakeTxStore drives the mocked OrderTx through InTx. BeginErr simulates a
// transaction that cannot even start (e.g. a storage conflict surfacing
// from commit).
type FakeTxStore struct {
	Tx       repository.OrderTx
	BeginErr error
}

func (f *FakeTxStore) InTx(ctx context.Context, fn func(tx repository.OrderTx) error) error {
	if f.BeginErr != nil {
		return f.BeginErr
	}
	return fn(f.Tx)
}

type MockOrderTx struct {
	mock.Mock
}

func (m *MockOrderTx) LockOrder(id uint64) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderTx) CreateOrder(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderTx) SaveOrder(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderTx) LockProduct(id uint64) (*domain.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockOrderTx) DeductStock(productID uint64, qty int64) error {
	args := m.Called(productID, qty)
	return args.Error(0)
}

func (m *MockOrderTx) RestoreStock(productID uint64, qty int64) error {
	args := m.Called(productID, qty)
	return args.Error(0)
}

func (m *MockOrderTx) FindCoupon(code string) (*domain.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type MockShippingClient struct {
	mock.Mock
}

func (m *MockShippingClient) CreateShipment(ctx context.Context, order *domain.Order) (*infra.ShipmentInfo, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.ShipmentInfo), args.Error(1)
}
