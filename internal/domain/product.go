package domain

import "time"

type Product struct {
	ID              uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string `json:"name" gorm:"size:255;not null"`
	Price           int64  `json:"price" gorm:"not null"`
	DiscountPercent int64  `json:"discountPercent" gorm:"not null;default:0"`
	// StockQuantity is mutated only inside lifecycle transactions and never
	// driven below zero by them.
	StockQuantity int64 `json:"stockQuantity" gorm:"not null;default:0"`
	// MinStockLevel is advisory; crossing it emits a low-stock event but
	// does not block orders.
	MinStockLevel int64     `json:"minStockLevel" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
