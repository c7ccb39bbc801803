package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nawrasbh/storefront/internal/admin"
	"github.com/nawrasbh/storefront/internal/analytics"
	"github.com/nawrasbh/storefront/internal/catalog"
	"github.com/nawrasbh/storefront/internal/checkout"
	"github.com/nawrasbh/storefront/internal/orders"
	"github.com/nawrasbh/storefront/internal/settings"
)

//
// ===== IN-MEMORY STUBS (implement the package Repository interfaces) =====
//

type stubCatalog struct {
	products   map[string]*catalog.Product
	categories map[string]*catalog.Category
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products:   map[string]*catalog.Product{},
		categories: map[string]*catalog.Category{},
	}
}

func (s *stubCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	out := []catalog.Product{}
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	cp.Variants = append([]catalog.Variant(nil), p.Variants...)
	return &cp, nil
}

func (s *stubCatalog) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if p.CategoryID != "" {
		if _, ok := s.categories[p.CategoryID]; !ok {
			return catalog.ErrCategoryNotFound
		}
	}
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.products[p.ID] = &cp
	return nil
}

func (s *stubCatalog) UpdateProduct(ctx context.Context, id string, d *catalog.ProductDraft) (*catalog.Product, error) {
	cur, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	if d.CategoryID != "" {
		if _, ok := s.categories[d.CategoryID]; !ok {
			return nil, catalog.ErrCategoryNotFound
		}
		cur.CategoryID = d.CategoryID
	}
	if d.Name != "" {
		cur.Name = d.Name
	}
	if d.Price != "" {
		cur.Price = d.Price
	}
	switch {
	case d.Variants != nil:
		next := d.ToProduct()
		cur.Variants = next.Variants
		cur.TotalStock = next.TotalStock
	case d.TotalStock != nil || d.TotalStockCamel != nil || d.Stock != nil:
		cur.TotalStock = d.ResolvedStock()
	}
	cur.UpdatedAt = time.Now().UTC()
	cp := *cur
	return &cp, nil
}

func (s *stubCatalog) DeleteProduct(ctx context.Context, id string) (bool, error) {
	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	out := []catalog.Category{}
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCatalog) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, catalog.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubCatalog) CreateCategory(ctx context.Context, c *catalog.Category) error {
	cp := *c
	cp.CreatedAt = time.Now().UTC()
	s.categories[c.ID] = &cp
	return nil
}

func (s *stubCatalog) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	cur, ok := s.categories[c.ID]
	if !ok {
		return catalog.ErrCategoryNotFound
	}
	if c.Name != "" {
		cur.Name = c.Name
	}
	if c.NameLocalized != "" {
		cur.NameLocalized = c.NameLocalized
	}
	return nil
}

// DeleteCategory detaches referencing products the way the FK does.
func (s *stubCatalog) DeleteCategory(ctx context.Context, id string) (bool, error) {
	if _, ok := s.categories[id]; !ok {
		return false, nil
	}
	delete(s.categories, id)
	for _, p := range s.products {
		if p.CategoryID == id {
			p.CategoryID = ""
		}
	}
	return true, nil
}

type stubOrders struct {
	customers map[string]*orders.Customer
	orders    map[string]*orders.Order
	catalog   *stubCatalog
}

func newStubOrders(cat *stubCatalog) *stubOrders {
	return &stubOrders{
		customers: map[string]*orders.Customer{},
		orders:    map[string]*orders.Order{},
		catalog:   cat,
	}
}

func (s *stubOrders) ListOrders(ctx context.Context) ([]orders.Order, error) {
	out := []orders.Order{}
	for _, o := range s.orders {
		cp := *o
		if c, ok := s.customers[o.CustomerID]; ok {
			cc := *c
			cp.Customer = &cc
		}
		out = append(out, cp)
	}
	return out, nil
}

func (s *stubOrders) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	cp := *o
	cp.Items = append([]orders.Item(nil), o.Items...)
	if c, ok := s.customers[o.CustomerID]; ok {
		cc := *c
		cp.Customer = &cc
	}
	return &cp, nil
}

func (s *stubOrders) UpdateOrder(ctx context.Context, id string, req *orders.UpdateOrderRequest) (*orders.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	if req.Status != "" {
		o.Status = req.Status
	}
	if req.DeliveryType != "" {
		o.DeliveryType = req.DeliveryType
	}
	if req.DeliveryArea != "" {
		o.DeliveryArea = req.DeliveryArea
	}
	if req.Notes != nil {
		o.Notes = *req.Notes
	}
	if req.Items != nil {
		total, err := orders.RecomputeTotal(req.Items, o.DeliveryFee)
		if err != nil {
			return nil, err
		}
		o.Items = append([]orders.Item(nil), req.Items...)
		o.Total = total
	}
	o.UpdatedAt = time.Now().UTC()
	return s.GetOrder(ctx, id)
}

func (s *stubOrders) DeleteOrder(ctx context.Context, id string) (bool, error) {
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}

func (s *stubOrders) Place(ctx context.Context, c *orders.Customer, o *orders.Order, decs []orders.StockDecrement) error {
	for _, d := range decs {
		p, ok := s.catalog.products[d.ProductID]
		if !ok {
			return orders.ErrInsufficientStock
		}
		if d.VariantID != "" {
			v, ok := p.FindVariant(d.VariantID)
			if !ok || v.Stock < d.Quantity {
				return orders.ErrInsufficientStock
			}
			v.Stock -= d.Quantity
			p.SyncTotalStock()
			continue
		}
		if p.TotalStock < d.Quantity {
			return orders.ErrInsufficientStock
		}
		p.TotalStock -= d.Quantity
	}
	cc := *c
	s.customers[c.ID] = &cc
	co := *o
	s.orders[o.ID] = &co
	return nil
}

func (s *stubOrders) ListCustomers(ctx context.Context) ([]orders.Customer, error) {
	out := []orders.Customer{}
	for _, c := range s.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubOrders) GetCustomer(ctx context.Context, id string) (*orders.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, orders.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubOrders) CreateCustomer(ctx context.Context, c *orders.Customer) error {
	cp := *c
	s.customers[c.ID] = &cp
	return nil
}

func (s *stubOrders) UpdateCustomer(ctx context.Context, c *orders.Customer) error {
	cur, ok := s.customers[c.ID]
	if !ok {
		return orders.ErrCustomerNotFound
	}
	if c.Name != "" {
		cur.Name = c.Name
	}
	if c.Phone != "" {
		cur.Phone = c.Phone
	}
	if c.Address != "" {
		cur.Address = c.Address
	}
	return nil
}

// DeleteCustomer cascades to orders like the FK does.
func (s *stubOrders) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	if _, ok := s.customers[id]; !ok {
		return false, nil
	}
	delete(s.customers, id)
	for oid, o := range s.orders {
		if o.CustomerID == id {
			delete(s.orders, oid)
		}
	}
	return true, nil
}

type stubSettings struct {
	values map[string]json.RawMessage
}

func newStubSettings() *stubSettings {
	return &stubSettings{values: map[string]json.RawMessage{}}
}

func (s *stubSettings) Get(ctx context.Context, key string) (json.RawMessage, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, settings.ErrNotFound
	}
	return v, nil
}

func (s *stubSettings) Put(ctx context.Context, key string, value json.RawMessage) error {
	s.values[key] = value
	return nil
}

func (s *stubSettings) DeliveryConfig(ctx context.Context) (settings.DeliveryConfig, error) {
	raw, ok := s.values[settings.KeyDelivery]
	if !ok {
		return settings.DeliveryConfig{
			FreeDeliveryThreshold: decimal.RequireFromString("20.000"),
			DefaultFee:            decimal.RequireFromString("2.000"),
			AreaFees: map[string]decimal.Decimal{
				"sitra": decimal.RequireFromString("1.000"),
			},
		}, nil
	}
	var cfg settings.DeliveryConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return settings.DeliveryConfig{}, err
	}
	return cfg, nil
}

func (s *stubSettings) SeedDefaults(ctx context.Context) error { return nil }

type stubEvents struct {
	events []analytics.Event
}

func (s *stubEvents) Insert(ctx context.Context, e *analytics.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	s.events = append(s.events, *e)
	return nil
}

func (s *stubEvents) List(ctx context.Context, limit, offset int) ([]analytics.Event, error) {
	return append([]analytics.Event(nil), s.events...), nil
}

func (s *stubEvents) Summary(ctx context.Context, days int) ([]analytics.DailyCount, error) {
	if len(s.events) == 0 {
		return []analytics.DailyCount{}, nil
	}
	return []analytics.DailyCount{{Day: time.Now().UTC().Format("2006-01-02"), Count: len(s.events)}}, nil
}

type stubAdminRepo struct {
	admin *admin.Admin
}

func (s *stubAdminRepo) Get(ctx context.Context) (*admin.Admin, error) {
	if s.admin == nil {
		return nil, admin.ErrNotFound
	}
	cp := *s.admin
	return &cp, nil
}

func (s *stubAdminRepo) UpdateEmail(ctx context.Context, id, email string) error {
	s.admin.Email = email
	return nil
}

func (s *stubAdminRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	s.admin.PasswordHash = hash
	return nil
}

func (s *stubAdminRepo) Seed(ctx context.Context, email, hash string) error {
	if s.admin == nil {
		s.admin = &admin.Admin{ID: "a1", Email: email, PasswordHash: hash}
	}
	return nil
}

//
// ===== TEST ROUTER (same wiring as main) =====
//

type fixture struct {
	catalog  *stubCatalog
	orders   *stubOrders
	settings *stubSettings
	events   *stubEvents
	admin    *stubAdminRepo
	router   *gin.Engine
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	cat := newStubCatalog()
	ord := newStubOrders(cat)
	set := newStubSettings()
	ev := &stubEvents{}
	adm := &stubAdminRepo{}
	_ = adm.Seed(context.Background(), "admin@store.local", mustHash("secret1"))

	checkoutSvc := checkout.NewService(cat, ord, set, zerolog.Nop())
	adminSvc := admin.NewService(adm, zerolog.Nop())

	r := gin.New()
	registerRoutes(r, cat, ord, set, ev, checkoutSvc, adminSvc)
	return &fixture{catalog: cat, orders: ord, settings: set, events: ev, admin: adm, router: r}
}

func mustHash(plain string) string {
	h, err := admin.HashPassword(plain)
	if err != nil {
		panic(err)
	}
	return h
}
