package services

import (
	"time"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
)

func CreateMockOrder(id uint64, userID *uint64, status domain.OrderStatus, items ...domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:            id,
		Code:          "ORD20250301120000-TESTCODE",
		UserID:        userID,
		Status:        status,
		PaymentStatus: domain.PaymentUnpaid,
		PaymentMethod: PaymentMethodCOD,
		Items:         items,
		CreatedAt:     time.Now(),
	}
}

func CreateMockProduct(id uint64, price, stock int64) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          "Test Product",
		Price:         price,
		StockQuantity: stock,
	}
}

func Uint64Ptr(v uint64) *uint64 { return &v }

const (
	TestOrderID   = uint64(100)
	TestProductID = uint64(7)
	TestUserID    = uint64(42)
)
