// Package checkout implements the order placement workflow: validate the
// cart against the catalog, price it server-side, then persist customer,
// order and stock consumption as one atomic write.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nawrasbh/storefront/internal/catalog"
	"github.com/nawrasbh/storefront/internal/orders"
	"github.com/nawrasbh/storefront/internal/settings"
)

// ErrInvalidInput marks request-shape problems the caller can fix.
var ErrInvalidInput = errors.New("invalid checkout request")

// NoVariant is the sentinel some clients send instead of omitting the
// variant id.
const NoVariant = "no-variant"

// InvalidReferenceError reports a cart line pointing at a product or
// variant that does not exist.
type InvalidReferenceError struct {
	Kind string // "product" or "variant"
	ID   string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.ID)
}

// InsufficientStockError names the offending line and both quantities so
// the storefront can show the shopper exactly what to reduce.
type InsufficientStockError struct {
	ProductName string
	VariantName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if e.VariantName != "" {
		name += " (" + e.VariantName + ")"
	}
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, e.Available, e.Requested)
}

// CartItem is one line of the submitted cart. Price, if sent, is ignored:
// the unit price is always re-read from the catalog at placement time and
// frozen onto the order item snapshot.
type CartItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// Request is the checkout payload.
type Request struct {
	Customer     orders.CustomerDraft `json:"customer"`
	Items        []CartItem           `json:"items"`
	DeliveryType string               `json:"delivery_type"`
	DeliveryArea string               `json:"delivery_area"`
	Notes        string               `json:"notes"`
}

type Catalog interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type OrderStore interface {
	Place(ctx context.Context, c *orders.Customer, o *orders.Order, decs []orders.StockDecrement) error
}

type Pricing interface {
	DeliveryConfig(ctx context.Context) (settings.DeliveryConfig, error)
}

type Service struct {
	catalog Catalog
	store   OrderStore
	pricing Pricing
	log     zerolog.Logger
}

func NewService(cat Catalog, store OrderStore, pricing Pricing, log zerolog.Logger) *Service {
	return &Service{catalog: cat, store: store, pricing: pricing, log: log}
}

func noVariant(id string) bool { return id == "" || id == NoVariant }

// PlaceOrder runs the full placement sequence. Validation (shape, catalog
// references, stock) happens before anything is written; the write itself
// is a single transaction whose conditional decrements re-check stock, so
// two concurrent checkouts cannot oversell the same line.
func (s *Service) PlaceOrder(ctx context.Context, req *Request) (*orders.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidInput)
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
		}
	}
	if !orders.ValidDeliveryType(req.DeliveryType) {
		return nil, fmt.Errorf("%w: delivery_type must be delivery or pickup", ErrInvalidInput)
	}
	cust := &orders.Customer{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(req.Customer.Name),
		Phone:   strings.TrimSpace(req.Customer.Phone),
		Address: req.Customer.ComposedAddress(),
	}
	if cust.Name == "" || cust.Phone == "" || cust.Address == "" {
		return nil, fmt.Errorf("%w: customer name, phone and address are required", ErrInvalidInput)
	}

	// Resolve each line against the catalog and check stock. Nothing is
	// written until every line passes.
	products := map[string]*catalog.Product{}
	subtotal := decimal.Zero
	items := make([]orders.Item, 0, len(req.Items))
	decs := make([]orders.StockDecrement, 0, len(req.Items))
	for _, line := range req.Items {
		p, ok := products[line.ProductID]
		if !ok {
			var err error
			p, err = s.catalog.GetProduct(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return nil, &InvalidReferenceError{Kind: "product", ID: line.ProductID}
				}
				return nil, fmt.Errorf("fetch product %s: %w", line.ProductID, err)
			}
			products[line.ProductID] = p
		}

		variantID := ""
		if !noVariant(line.VariantID) {
			v, ok := p.FindVariant(line.VariantID)
			if !ok {
				return nil, &InvalidReferenceError{Kind: "variant", ID: line.VariantID}
			}
			if v.Stock < line.Quantity {
				return nil, &InsufficientStockError{
					ProductName: p.Name, VariantName: v.Name,
					Available: v.Stock, Requested: line.Quantity,
				}
			}
			variantID = v.ID
		} else if p.TotalStock < line.Quantity {
			return nil, &InsufficientStockError{
				ProductName: p.Name,
				Available:   p.TotalStock, Requested: line.Quantity,
			}
		}

		unitPrice, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s has unparseable price %q: %w", p.ID, p.Price, err)
		}
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))

		items = append(items, orders.Item{
			ID:        uuid.NewString(),
			ProductID: p.ID,
			VariantID: variantID,
			Quantity:  line.Quantity,
			Price:     unitPrice.StringFixed(3),
		})
		decs = append(decs, orders.StockDecrement{
			ProductID: p.ID,
			VariantID: variantID,
			Quantity:  line.Quantity,
		})
	}

	cfg, err := s.pricing.DeliveryConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load delivery config: %w", err)
	}
	fee := cfg.Fee(req.DeliveryType, req.DeliveryArea, subtotal)
	total := subtotal.Add(fee)

	o := &orders.Order{
		ID:           uuid.NewString(),
		CustomerID:   cust.ID,
		Items:        items,
		Status:       orders.StatusProcessing,
		DeliveryType: req.DeliveryType,
		DeliveryArea: req.DeliveryArea,
		Notes:        req.Notes,
		Total:        total.StringFixed(3),
		DeliveryFee:  fee.StringFixed(3),
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}

	if err := s.store.Place(ctx, cust, o, decs); err != nil {
		// A conditional decrement lost a race after validation passed.
		if errors.Is(err, orders.ErrInsufficientStock) {
			s.log.Warn().Str("order", o.ID).Err(err).Msg("stock conflict at commit")
			return nil, err
		}
		return nil, fmt.Errorf("place order: %w", err)
	}
	o.Customer = cust
	s.log.Info().Str("order", o.ID).Str("total", o.Total).Int("lines", len(items)).Msg("order placed")
	return o, nil
}
