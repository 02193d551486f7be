package feecalc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// ErrOutOfRange is returned when the routing service rejects the drop-off
// point as undeliverable from the pickup point.
var ErrOutOfRange = errors.New("delivery address is out of range")

// Client calls the external routing service that computes distance-based
// delivery fees.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: viper.GetString("feecalc.base_url"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type feeRequest struct {
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`
}

type feeResponse struct {
	FeeCents   int64 `json:"fee_cents"`
	OutOfRange bool  `json:"out_of_range"`
}

// Fee returns the delivery fee in cents for the given route.
func (c *Client) Fee(ctx context.Context, pickupLat, pickupLng, dropoffLat, dropoffLng float64) (int64, error) {
	body, err := json.Marshal(feeRequest{
		PickupLat:  pickupLat,
		PickupLng:  pickupLng,
		DropoffLat: dropoffLat,
		DropoffLng: dropoffLng,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal fee request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/fees", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build fee request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call fee calculator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fee calculator returned status %d", resp.StatusCode)
	}

	var out feeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode fee response: %w", err)
	}

	if out.OutOfRange {
		return 0, ErrOutOfRange
	}

	return out.FeeCents, nil
}
