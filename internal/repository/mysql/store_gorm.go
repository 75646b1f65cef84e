package mysql

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
	"github.com/tldev36/ECommerce-sub001/internal/repository"
)

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

type txStore struct {
	db *gorm.DB
}

func NewTxStore(db *gorm.DB) repository.TxStore {
	return &txStore{db: db}
}

func (s *txStore) InTx(ctx context.Context, fn func(tx repository.OrderTx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderTx{db: tx})
	})
	return TranslateError(err)
}

// TranslateError maps MySQL driver errors onto the domain taxonomy.
// Deadlocks and lock wait timeouts become the retryable ErrStorageConflict;
// domain errors pass through untouched.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDeadlock, mysqlErrLockWaitTimeout:
			return domain.ErrStorageConflict
		}
	}
	return err
}

// IsDuplicateEntry reports a unique-constraint violation, used by the
// order-code retry loop.
func IsDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry
}

type orderTx struct {
	db *gorm.DB
}

func (t *orderTx) LockOrder(id uint64) (*domain.Order, error) {
	var o domain.Order
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (t *orderTx) CreateOrder(order *domain.Order) error {
	return t.db.Create(order).Error
}

func (t *orderTx) SaveOrder(order *domain.Order) error {
	return t.db.Save(order).Error
}

func (t *orderTx) LockProduct(id uint64) (*domain.Product, error) {
	var p domain.Product
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *orderTx) DeductStock(productID uint64, qty int64) error {
	res := t.db.Model(&domain.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := t.db.Model(&domain.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrProductNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (t *orderTx) RestoreStock(productID uint64, qty int64) error {
	res := t.db.Model(&domain.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (t *orderTx) FindCoupon(code string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := t.db.Where("code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
