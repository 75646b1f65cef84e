package repository

import (
	"context"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
)

// OrderRepository is the read side used by query endpoints.
type OrderRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByCode(ctx context.Context, code string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
}

// TxStore opens one all-or-nothing unit of work. Every mutation of orders
// and stock goes through an OrderTx; fn returning an error rolls back all
// of it.
type TxStore interface {
	InTx(ctx context.Context, fn func(tx OrderTx) error) error
}

// OrderTx is the transaction-scoped handle threaded through the lifecycle
// manager. Lock* methods take row-level locks held until commit, which is
// what serializes concurrent transitions on the same order.
type OrderTx interface {
	LockOrder(id uint64) (*domain.Order, error)
	CreateOrder(order *domain.Order) error
	SaveOrder(order *domain.Order) error

	LockProduct(id uint64) (*domain.Product, error)
	// DeductStock decrements guarded by stock_quantity >= qty, so stock can
	// never go negative regardless of interleaving.
	DeductStock(productID uint64, qty int64) error
	RestoreStock(productID uint64, qty int64) error

	FindCoupon(code string) (*domain.Coupon, error)
}
