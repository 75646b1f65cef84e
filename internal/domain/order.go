package domain

import "time"

// Order is a customer purchase. Status tracks fulfillment and PaymentStatus
// tracks money; the two axes are independent.
type Order struct {
	ID            uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Code          string        `json:"code" gorm:"size:64;uniqueIndex;not null"`
	UserID        *uint64       `json:"userId" gorm:"index"`
	Status        OrderStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(10);not null;default:'unpaid'"`
	PaymentMethod string        `json:"paymentMethod" gorm:"size:20;not null"`

	// Money is integer cents.
	Total          int64 `json:"total" gorm:"not null"`
	ShippingFee    int64 `json:"shippingFee" gorm:"not null;default:0"`
	CouponDiscount int64 `json:"couponDiscount" gorm:"not null;default:0"`

	ShippingName    string `json:"shippingName" gorm:"size:100"`
	ShippingPhone   string `json:"shippingPhone" gorm:"size:20"`
	ShippingAddress string `json:"shippingAddress" gorm:"size:255"`
	ShippingCity    string `json:"shippingCity" gorm:"size:100"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
	CompletedAt *time.Time `json:"completedAt"`
}

// OrderItem snapshots one product line at creation time. UnitPrice and
// DiscountPercent never re-read the product row, so later price changes do
// not affect existing orders.
type OrderItem struct {
	ID              uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID         uint64 `json:"orderId" gorm:"not null;index"`
	ProductID       uint64 `json:"productId" gorm:"not null;index"`
	Quantity        int64  `json:"quantity" gorm:"not null"`
	UnitPrice       int64  `json:"unitPrice" gorm:"not null"`
	DiscountPercent int64  `json:"discountPercent" gorm:"not null;default:0"`
	Subtotal        int64  `json:"subtotal" gorm:"not null"`
}

// LineSubtotal computes qty x price x (100 - discount)/100 in integer cents.
func LineSubtotal(qty, unitPrice, discountPercent int64) int64 {
	return qty * unitPrice * (100 - discountPercent) / 100
}

// IsOwnedBy reports whether the order belongs to userID. Guest orders have
// no owner and always fail the check.
func (o *Order) IsOwnedBy(userID uint64) bool {
	return o.UserID != nil && *o.UserID == userID
}
