package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusDelivered  = "delivered"
	StatusPickedUp   = "picked-up"

	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

// ValidStatus reports whether s is one of the known order statuses. Any
// status may follow any other; the progression is display-oriented only.
func ValidStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusReady, StatusDelivered, StatusPickedUp:
		return true
	}
	return false
}

func ValidDeliveryType(s string) bool {
	return s == DeliveryTypeDelivery || s == DeliveryTypePickup
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is the frozen product/variant/price/quantity tuple stored on an
// order. Price is a snapshot taken at order time; later catalog changes
// never alter it.
type Item struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"` // NUMERIC -> string
}

type Order struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	Customer     *Customer `json:"customer,omitempty"`
	Items        []Item    `json:"items"`
	Status       string    `json:"status"`
	DeliveryType string    `json:"delivery_type"`
	DeliveryArea string    `json:"delivery_area,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Total        string    `json:"total"`        // NUMERIC -> string
	DeliveryFee  string    `json:"delivery_fee"` // NUMERIC -> string
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecomputeTotal derives an order total from its items plus the stored
// delivery fee. Used whenever an item patch arrives so a stale
// client-supplied total is never trusted.
func RecomputeTotal(items []Item, deliveryFee string) (string, error) {
	total, err := decimal.NewFromString(deliveryFee)
	if err != nil {
		return "", fmt.Errorf("bad delivery fee %q: %w", deliveryFee, err)
	}
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return "", fmt.Errorf("bad item price %q: %w", it.Price, err)
		}
		if it.Quantity < 1 {
			return "", fmt.Errorf("item quantity must be at least 1")
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.StringFixed(3), nil
}
