package orders

// CustomerDraft payload for customer create/update. Address may arrive as
// free text or as home/road/block/town parts composed server-side.
type CustomerDraft struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Home    string `json:"home"`
	Road    string `json:"road"`
	Block   string `json:"block"`
	Town    string `json:"town"`
}

// ComposedAddress returns the free-text address, or one assembled from the
// structured parts when no free text was given.
func (d *CustomerDraft) ComposedAddress() string {
	if d.Address != "" {
		return d.Address
	}
	parts := []struct{ label, v string }{
		{"Home", d.Home},
		{"Road", d.Road},
		{"Block", d.Block},
		{"", d.Town},
	}
	out := ""
	for _, p := range parts {
		if p.v == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		if p.label != "" {
			out += p.label + " " + p.v
		} else {
			out += p.v
		}
	}
	return out
}

// UpdateOrderRequest is the admin patch for an order. A nil Items slice
// means "items unchanged"; a non-nil one replaces them and forces a total
// recompute.
type UpdateOrderRequest struct {
	Status       string  `json:"status"`
	DeliveryType string  `json:"delivery_type"`
	DeliveryArea string  `json:"delivery_area"`
	Notes        *string `json:"notes"`
	Items        []Item  `json:"items"`
}

// StockDecrement is one stock consumption applied inside the placement
// transaction. An empty VariantID targets the product-level total stock.
type StockDecrement struct {
	ProductID string
	VariantID string
	Quantity  int
}
