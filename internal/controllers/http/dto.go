package http

type CheckoutItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	UserID          *uint64               `json:"userId"`
	PaymentMethod   string                `json:"paymentMethod" binding:"required"`
	CouponCode      string                `json:"couponCode"`
	ShippingFee     int64                 `json:"shippingFee" binding:"min=0"`
	ShippingName    string                `json:"shippingName" binding:"required"`
	ShippingPhone   string                `json:"shippingPhone" binding:"required"`
	ShippingAddress string                `json:"shippingAddress" binding:"required"`
	ShippingCity    string                `json:"shippingCity"`
	Items           []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PaymentCallbackRequest is the normalized shape the provider-specific
// callback adapters post. Status is "success" or "failed".
type PaymentCallbackRequest struct {
	OrderCode string `json:"orderCode" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=success failed"`
	Provider  string `json:"provider"`
}
