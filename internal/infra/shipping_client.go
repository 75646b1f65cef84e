package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
)

// ShipmentInfo is the provider's acknowledgement of a registered shipment.
type ShipmentInfo struct {
	TrackingCode string `json:"trackingCode"`
	Carrier      string `json:"carrier"`
	Fee          int64  `json:"fee"`
}

// ShippingClient registers shipments with the external shipping provider.
// The provider is informational only and never drives order state.
type ShippingClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewShippingClient(baseURL string, timeout time.Duration) *ShippingClient {
	return &ShippingClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ShippingClient) CreateShipment(ctx context.Context, order *domain.Order) (*ShipmentInfo, error) {
	payload := map[string]any{
		"orderCode": order.Code,
		"name":      order.ShippingName,
		"phone":     order.ShippingPhone,
		"address":   order.ShippingAddress,
		"city":      order.ShippingCity,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shipments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("shipping provider returned status %d", resp.StatusCode)
	}

	var info ShipmentInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
