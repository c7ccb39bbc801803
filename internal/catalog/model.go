package catalog

import "time"

type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	NameLocalized string    `json:"name_localized,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Variant is a purchasable sub-option of a product (color, size, ...)
// carrying its own stock count. It has no lifecycle outside its product.
type Variant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
	Image string `json:"image,omitempty"`
}

type Product struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	NameLocalized        string `json:"name_localized,omitempty"`
	Description          string `json:"description,omitempty"`
	DescriptionLocalized string `json:"description_localized,omitempty"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price      string    `json:"price"`
	Images     []string  `json:"images"`
	Variants   []Variant `json:"variants"`
	CategoryID string    `json:"category_id,omitempty"`
	TotalStock int       `json:"total_stock"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SyncTotalStock re-establishes the stock invariant: with variants present,
// total_stock is the sum of variant stocks; without variants the stored
// figure stands on its own.
func (p *Product) SyncTotalStock() {
	if len(p.Variants) == 0 {
		return
	}
	sum := 0
	for _, v := range p.Variants {
		sum += v.Stock
	}
	p.TotalStock = sum
}

// FindVariant resolves a variant id within the product.
func (p *Product) FindVariant(id string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}
