// Package orders provides durable storage for customers and orders,
// including the single-transaction order placement write.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	ListOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	UpdateOrder(ctx context.Context, id string, req *UpdateOrderRequest) (*Order, error)
	DeleteOrder(ctx context.Context, id string) (bool, error)

	// Place persists the customer, the order with its items, and applies
	// every stock decrement in one transaction. Decrements are conditional
	// updates; a decrement that would go negative aborts the whole
	// transaction with ErrInsufficientStock.
	Place(ctx context.Context, c *Customer, o *Order, decs []StockDecrement) error

	ListCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	CreateCustomer(ctx context.Context, c *Customer) error
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderCols = `o.id, o.customer_id, o.status, o.delivery_type, o.delivery_area,
	o.notes, o.total::text, o.delivery_fee::text, o.created_at, o.updated_at`

func (r *PGRepo) ListOrders(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+`,
		       c.id, c.name, c.phone, c.address, c.created_at, c.updated_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	index := map[string]int{}
	var ids []string
	for rows.Next() {
		var o Order
		var c Customer
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.DeliveryType, &o.DeliveryArea,
			&o.Notes, &o.Total, &o.DeliveryFee, &o.CreatedAt, &o.UpdatedAt,
			&c.ID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		o.Customer = &c
		o.Items = []Item{}
		index[o.ID] = len(out)
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []Order{}, nil
	}

	irows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, variant_id, quantity, price::text
		FROM order_items WHERE order_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var it Item
		if err := irows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		if i, ok := index[it.OrderID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, irows.Err()
}

func (r *PGRepo) GetOrder(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	var c Customer
	err := r.db.QueryRow(ctx, `
		SELECT `+orderCols+`,
		       c.id, c.name, c.phone, c.address, c.created_at, c.updated_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id).Scan(&o.ID, &o.CustomerID, &o.Status, &o.DeliveryType, &o.DeliveryArea,
		&o.Notes, &o.Total, &o.DeliveryFee, &o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	o.Customer = &c
	o.Items, err = r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) items(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, variant_id, quantity, price::text
		FROM order_items WHERE order_id=$1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateOrder(ctx context.Context, id string, req *UpdateOrderRequest) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var deliveryFee string
	if err := tx.QueryRow(ctx, `SELECT delivery_fee::text FROM orders WHERE id=$1`, id).Scan(&deliveryFee); err != nil {
		return nil, ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET status        = COALESCE(NULLIF($2,''), status),
		    delivery_type = COALESCE(NULLIF($3,''), delivery_type),
		    delivery_area = COALESCE(NULLIF($4,''), delivery_area),
		    updated_at    = NOW()
		WHERE id = $1
	`, id, req.Status, req.DeliveryType, req.DeliveryArea)
	if err != nil {
		return nil, err
	}
	if req.Notes != nil {
		if _, err := tx.Exec(ctx, `UPDATE orders SET notes=$2 WHERE id=$1`, id, *req.Notes); err != nil {
			return nil, err
		}
	}

	if req.Items != nil {
		// Items changed: never trust a client total, re-derive it here.
		total, err := RecomputeTotal(req.Items, deliveryFee)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, id); err != nil {
			return nil, err
		}
		if err := insertItems(ctx, tx, id, req.Items); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE orders SET total=$2::numeric WHERE id=$1`, id, total); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, id)
}

func (r *PGRepo) DeleteOrder(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) Place(ctx context.Context, c *Customer, o *Order, decs []StockDecrement) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO customers (id, name, phone, address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
	`, c.ID, c.Name, c.Phone, c.Address); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, customer_id, status, delivery_type, delivery_area,
			notes, total, delivery_fee, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7::numeric,$8::numeric,NOW(),NOW())
	`, o.ID, c.ID, o.Status, o.DeliveryType, o.DeliveryArea, o.Notes, o.Total, o.DeliveryFee); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}

	for _, d := range decs {
		if d.VariantID != "" {
			tag, err := tx.Exec(ctx, `
				UPDATE product_variants
				SET stock = stock - $3
				WHERE product_id=$1 AND id=$2 AND stock >= $3
			`, d.ProductID, d.VariantID, d.Quantity)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: product %s variant %s", ErrInsufficientStock, d.ProductID, d.VariantID)
			}
			if _, err := tx.Exec(ctx, `
				UPDATE products
				SET total_stock = (SELECT COALESCE(SUM(stock),0) FROM product_variants WHERE product_id=$1),
				    updated_at  = NOW()
				WHERE id=$1
			`, d.ProductID); err != nil {
				return err
			}
			continue
		}
		tag, err := tx.Exec(ctx, `
			UPDATE products
			SET total_stock = total_stock - $2, updated_at = NOW()
			WHERE id=$1 AND total_stock >= $2
		`, d.ProductID, d.Quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: product %s", ErrInsufficientStock, d.ProductID)
		}
	}

	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []Item) error {
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5,$6::numeric)
		`, it.ID, orderID, it.ProductID, it.VariantID, it.Quantity, it.Price); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) ListCustomers(ctx context.Context) ([]Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, phone, address, created_at, updated_at
		FROM customers ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Customer
	err := r.db.QueryRow(ctx, `
		SELECT id, name, phone, address, created_at, updated_at
		FROM customers WHERE id=$1
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	return &c, nil
}

func (r *PGRepo) CreateCustomer(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, name, phone, address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
	`, c.ID, c.Name, c.Phone, c.Address)
	return err
}

func (r *PGRepo) UpdateCustomer(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name    = COALESCE(NULLIF($2,''), name),
		    phone   = COALESCE(NULLIF($3,''), phone),
		    address = COALESCE(NULLIF($4,''), address),
		    updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Phone, c.Address)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// DeleteCustomer removes the customer; the foreign key cascades to every
// order that references them.
func (r *PGRepo) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
