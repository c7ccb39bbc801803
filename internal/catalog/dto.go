package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidDraft = errors.New("invalid product data")

// ProductDraft is the create/update payload. Older storefront clients send
// the stock figure under different keys; all aliases normalize to one
// canonical total stock.
type ProductDraft struct {
	Name                 string    `json:"name"`
	NameLocalized        string    `json:"name_localized"`
	Description          string    `json:"description"`
	DescriptionLocalized string    `json:"description_localized"`
	Price                string    `json:"price"`
	Images               []string  `json:"images"`
	Variants             []Variant `json:"variants"`
	CategoryID           string    `json:"category_id"`

	Stock           *int `json:"stock"`
	TotalStockCamel *int `json:"totalStock"`
	TotalStock      *int `json:"total_stock"`
}

// ResolvedStock picks the canonical total stock from the accepted aliases.
// Only meaningful when the draft has no variants.
func (d *ProductDraft) ResolvedStock() int {
	switch {
	case d.TotalStock != nil:
		return *d.TotalStock
	case d.TotalStockCamel != nil:
		return *d.TotalStockCamel
	case d.Stock != nil:
		return *d.Stock
	}
	return 0
}

// Validate checks the draft for a create. Price must parse as a
// non-negative decimal; variant and total stocks must be non-negative.
func (d *ProductDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(d.Price))
	if err != nil {
		return errors.New("price must be a decimal number")
	}
	if price.IsNegative() {
		return errors.New("price must not be negative")
	}
	for _, v := range d.Variants {
		if strings.TrimSpace(v.Name) == "" {
			return errors.New("variant name is required")
		}
		if v.Stock < 0 {
			return errors.New("variant stock must not be negative")
		}
	}
	if len(d.Variants) == 0 && d.ResolvedStock() < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}

// ValidatePartial checks only the fields present, for updates where any
// field may be omitted.
func (d *ProductDraft) ValidatePartial() error {
	if p := strings.TrimSpace(d.Price); p != "" {
		price, err := decimal.NewFromString(p)
		if err != nil {
			return errors.New("price must be a decimal number")
		}
		if price.IsNegative() {
			return errors.New("price must not be negative")
		}
	}
	for _, v := range d.Variants {
		if strings.TrimSpace(v.Name) == "" {
			return errors.New("variant name is required")
		}
		if v.Stock < 0 {
			return errors.New("variant stock must not be negative")
		}
	}
	if d.ResolvedStock() < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}

// ToProduct builds a Product from the draft, assigning ids to variants that
// arrived without one and re-establishing the total-stock invariant. Any
// client-supplied total stock is discarded when variants are present.
func (d *ProductDraft) ToProduct() *Product {
	p := &Product{
		Name:                 strings.TrimSpace(d.Name),
		NameLocalized:        strings.TrimSpace(d.NameLocalized),
		Description:          d.Description,
		DescriptionLocalized: d.DescriptionLocalized,
		Price:                normalizePrice(d.Price),
		Images:               d.Images,
		Variants:             d.Variants,
		CategoryID:           strings.TrimSpace(d.CategoryID),
		TotalStock:           d.ResolvedStock(),
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	for i := range p.Variants {
		if p.Variants[i].ID == "" {
			p.Variants[i].ID = uuid.NewString()
		}
	}
	p.SyncTotalStock()
	return p
}

func normalizePrice(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return d.StringFixed(3)
}
