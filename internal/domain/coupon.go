package domain

import "time"

type Coupon struct {
	ID             uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Code           string     `json:"code" gorm:"size:64;uniqueIndex;not null"`
	DiscountAmount int64      `json:"discountAmount" gorm:"not null"`
	MinOrderTotal  int64      `json:"minOrderTotal" gorm:"not null;default:0"`
	Active         bool       `json:"active" gorm:"not null;default:true"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"autoCreateTime"`
}

// Applicable reports whether the coupon may be applied to an order of the
// given item total at time now.
func (c *Coupon) Applicable(itemTotal int64, now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return itemTotal >= c.MinOrderTotal
}
