package infra

import (
	"context"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
)

type ShippingClientInterface interface {
	CreateShipment(ctx context.Context, order *domain.Order) (*ShipmentInfo, error)
}

var _ ShippingClientInterface = (*ShippingClient)(nil)
