package domain

import "time"

type OrderCreatedEvent struct {
	OrderID   uint64      `json:"orderId"`
	Code      string      `json:"code"`
	UserID    *uint64     `json:"userId"`
	Total     int64       `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID       uint64        `json:"orderId"`
	Code          string        `json:"code"`
	From          OrderStatus   `json:"from"`
	To            OrderStatus   `json:"to"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	ChangedAt     time.Time     `json:"changedAt"`
}

type LowStockEvent struct {
	ProductID     uint64 `json:"productId"`
	StockQuantity int64  `json:"stockQuantity"`
	MinStockLevel int64  `json:"minStockLevel"`
}
