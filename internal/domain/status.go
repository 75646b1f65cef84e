package domain

import "strings"

type OrderStatus string

type PaymentStatus string

const (
	StatusWaitingPayment OrderStatus = "waiting_payment"
	StatusPending        OrderStatus = "pending"
	StatusProcessing     OrderStatus = "processing"
	StatusShipping       OrderStatus = "shipping"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"

	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Role identifies who is requesting a transition. The transition table is
// role-aware so the customer and admin entry points share one policy.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	// RoleSystem is used by payment-provider callbacks.
	RoleSystem Role = "system"
)

// ParseStatus accepts the wire representation case-insensitively.
func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusWaitingPayment:
		return StatusWaitingPayment, nil
	case StatusPending:
		return StatusPending, nil
	case StatusProcessing:
		return StatusProcessing, nil
	case StatusShipping:
		return StatusShipping, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", ErrInvalidStatus
}

type edge struct {
	from, to OrderStatus
}

// transitions holds every edge an admin may take. Forward fulfillment plus
// cancellation up to processing; shipping and completed orders are never
// cancellable.
var transitions = map[edge]bool{
	{StatusWaitingPayment, StatusPending}:   true,
	{StatusWaitingPayment, StatusCancelled}: true,
	{StatusPending, StatusProcessing}:       true,
	{StatusPending, StatusCancelled}:        true,
	{StatusProcessing, StatusShipping}:      true,
	{StatusProcessing, StatusCancelled}:     true,
	{StatusShipping, StatusCompleted}:       true,
}

// CanTransition reports whether role may move an order from one status to
// target. Customers may only cancel, and only before processing starts.
func CanTransition(from, to OrderStatus, role Role) bool {
	if !transitions[edge{from, to}] {
		return false
	}
	switch role {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return to == StatusCancelled && (from == StatusWaitingPayment || from == StatusPending)
	case RoleSystem:
		return from == StatusWaitingPayment
	}
	return false
}

// StatusLabel is the presentation entry for a status, consumed by the
// storefront and admin UI.
type StatusLabel struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusLabels = map[OrderStatus]StatusLabel{
	StatusWaitingPayment: {Label: "Waiting for payment", Color: "#f59e0b"},
	StatusPending:        {Label: "Pending", Color: "#eab308"},
	StatusProcessing:     {Label: "Processing", Color: "#3b82f6"},
	StatusShipping:       {Label: "Shipping", Color: "#8b5cf6"},
	StatusCompleted:      {Label: "Completed", Color: "#22c55e"},
	StatusCancelled:      {Label: "Cancelled", Color: "#ef4444"},
}

// Label returns the presentation entry for s. The backing table is never
// exposed, so callers cannot mutate it.
func Label(s OrderStatus) (StatusLabel, bool) {
	l, ok := statusLabels[s]
	return l, ok
}

// Labels returns a copy of the full status-label table.
func Labels() map[OrderStatus]StatusLabel {
	out := make(map[OrderStatus]StatusLabel, len(statusLabels))
	for k, v := range statusLabels {
		out[k] = v
	}
	return out
}
