package domain

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")

	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("transition not permitted from current status")
	ErrForbidden         = errors.New("not allowed to modify this order")

	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCouponInvalid     = errors.New("coupon is invalid or expired")

	// ErrStorageConflict marks a transaction aborted by a concurrent
	// conflict (deadlock, lock wait timeout). Safe to retry.
	ErrStorageConflict = errors.New("storage conflict, retry the request")
)
