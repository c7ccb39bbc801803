package catalog

import "testing"

func intp(v int) *int { return &v }

func TestResolvedStock_Aliases(t *testing.T) {
	d := &ProductDraft{Stock: intp(3)}
	if d.ResolvedStock() != 3 {
		t.Fatalf("stock alias not honored")
	}
	d = &ProductDraft{Stock: intp(3), TotalStockCamel: intp(7)}
	if d.ResolvedStock() != 7 {
		t.Fatalf("totalStock should win over stock")
	}
	d = &ProductDraft{Stock: intp(3), TotalStockCamel: intp(7), TotalStock: intp(9)}
	if d.ResolvedStock() != 9 {
		t.Fatalf("total_stock should win over both aliases")
	}
	d = &ProductDraft{}
	if d.ResolvedStock() != 0 {
		t.Fatalf("missing stock defaults to 0")
	}
}

func TestToProduct_VariantsOverrideClientStock(t *testing.T) {
	d := &ProductDraft{
		Name:  "Dates Box",
		Price: "10",
		Variants: []Variant{
			{Name: "Small", Stock: 5},
			{Name: "Large", Stock: 2},
		},
		TotalStock: intp(99), // must be discarded
	}
	p := d.ToProduct()
	if p.TotalStock != 7 {
		t.Fatalf("total_stock=%d, want sum of variants 7", p.TotalStock)
	}
	if p.Price != "10.000" {
		t.Fatalf("price=%s, want normalized 10.000", p.Price)
	}
	for _, v := range p.Variants {
		if v.ID == "" {
			t.Fatalf("variant without id must get one assigned")
		}
	}
}

func TestToProduct_NoVariants(t *testing.T) {
	d := &ProductDraft{Name: "Honey", Price: "4.5", Stock: intp(12)}
	p := d.ToProduct()
	if p.TotalStock != 12 {
		t.Fatalf("total_stock=%d, want 12", p.TotalStock)
	}
	if p.Images == nil || len(p.Images) != 0 {
		t.Fatalf("images must default to an empty list")
	}
}

func TestValidate(t *testing.T) {
	bad := []*ProductDraft{
		{Price: "1.000"},                       // missing name
		{Name: "X", Price: ""},                 // missing price
		{Name: "X", Price: "abc"},              // malformed price
		{Name: "X", Price: "-1"},               // negative price
		{Name: "X", Price: "1", Variants: []Variant{{Name: "A", Stock: -1}}},
		{Name: "X", Price: "1", Variants: []Variant{{Name: "", Stock: 1}}},
		{Name: "X", Price: "1", Stock: intp(-5)},
	}
	for i, d := range bad {
		if err := d.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	ok := &ProductDraft{Name: "X", Price: "1.250", Stock: intp(0)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}
}

func TestSyncTotalStock(t *testing.T) {
	p := &Product{TotalStock: 10}
	p.SyncTotalStock()
	if p.TotalStock != 10 {
		t.Fatalf("variant-less product must keep its own figure")
	}
	p.Variants = []Variant{{ID: "a", Stock: 4}, {ID: "b", Stock: 1}}
	p.SyncTotalStock()
	if p.TotalStock != 5 {
		t.Fatalf("total_stock=%d, want 5", p.TotalStock)
	}
}
