// Package catalog provides the repository interface and PostgreSQL
// implementation for products and categories.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, id string, d *ProductDraft) (*Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productCols = `id, name, name_localized, description, description_localized,
	price::text, images, COALESCE(category_id, ''), total_stock, created_at, updated_at`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.NameLocalized, &p.Description, &p.DescriptionLocalized,
		&p.Price, &p.Images, &p.CategoryID, &p.TotalStock, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PGRepo) ListProducts(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+`
		FROM products
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	index := map[string]int{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		p.Variants = []Variant{}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []Product{}, nil
	}

	vrows, err := r.db.Query(ctx, `
		SELECT product_id, id, name, stock, image
		FROM product_variants
		ORDER BY product_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()
	for vrows.Next() {
		var pid string
		var v Variant
		if err := vrows.Scan(&pid, &v.ID, &v.Name, &v.Stock, &v.Image); err != nil {
			return nil, err
		}
		if i, ok := index[pid]; ok {
			out[i].Variants = append(out[i].Variants, v)
		}
	}
	return out, vrows.Err()
}

func (r *PGRepo) GetProduct(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := scanProduct(r.db.QueryRow(ctx, `
		SELECT `+productCols+` FROM products WHERE id=$1
	`, id), &p)
	if err != nil {
		return nil, ErrNotFound
	}
	p.Variants, err = r.variants(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepo) variants(ctx context.Context, productID string) ([]Variant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, stock, image
		FROM product_variants WHERE product_id=$1 ORDER BY position
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Variant{}
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.Name, &v.Stock, &v.Image); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateProduct(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if p.CategoryID != "" {
		if err := categoryExists(ctx, tx, p.CategoryID); err != nil {
			return err
		}
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, name, name_localized, description, description_localized,
			price, images, category_id, total_stock, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),$9,NOW(),NOW())
	`, p.ID, p.Name, p.NameLocalized, p.Description, p.DescriptionLocalized,
		p.Price, p.Images, p.CategoryID, p.TotalStock)
	if err != nil {
		return err
	}
	if err := insertVariants(ctx, tx, p.ID, p.Variants); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) UpdateProduct(ctx context.Context, id string, d *ProductDraft) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if d.CategoryID != "" {
		if err := categoryExists(ctx, tx, d.CategoryID); err != nil {
			return nil, err
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET name                  = COALESCE(NULLIF($2,''), name),
		    name_localized        = COALESCE(NULLIF($3,''), name_localized),
		    description           = COALESCE(NULLIF($4,''), description),
		    description_localized = COALESCE(NULLIF($5,''), description_localized),
		    price                 = COALESCE(NULLIF($6,'')::numeric, price),
		    category_id           = COALESCE(NULLIF($7,''), category_id),
		    updated_at            = NOW()
		WHERE id = $1
	`, id, d.Name, d.NameLocalized, d.Description, d.DescriptionLocalized,
		normalizePrice(d.Price), d.CategoryID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if d.Images != nil {
		if _, err := tx.Exec(ctx, `UPDATE products SET images=$2 WHERE id=$1`, id, d.Images); err != nil {
			return nil, err
		}
	}

	switch {
	case d.Variants != nil:
		// Replace the variant set and re-derive total_stock from it.
		if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id=$1`, id); err != nil {
			return nil, err
		}
		p := d.ToProduct()
		if err := insertVariants(ctx, tx, id, p.Variants); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE products SET total_stock=$2 WHERE id=$1`, id, p.TotalStock); err != nil {
			return nil, err
		}
	case d.TotalStock != nil || d.TotalStockCamel != nil || d.Stock != nil:
		if _, err := tx.Exec(ctx, `UPDATE products SET total_stock=$2 WHERE id=$1`, id, d.ResolvedStock()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

func (r *PGRepo) DeleteProduct(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func categoryExists(ctx context.Context, tx pgx.Tx, id string) error {
	var one int
	if err := tx.QueryRow(ctx, `SELECT 1 FROM categories WHERE id=$1`, id).Scan(&one); err != nil {
		return ErrCategoryNotFound
	}
	return nil
}

func insertVariants(ctx context.Context, tx pgx.Tx, productID string, vs []Variant) error {
	for i, v := range vs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_variants (id, product_id, name, stock, image, position)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, v.ID, productID, v.Name, v.Stock, v.Image, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) ListCategories(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, name_localized, created_at
		FROM categories ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.NameLocalized, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetCategory(ctx context.Context, id string) (*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, name_localized, created_at FROM categories WHERE id=$1
	`, id).Scan(&c.ID, &c.Name, &c.NameLocalized, &c.CreatedAt)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	return &c, nil
}

func (r *PGRepo) CreateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, name, name_localized, created_at)
		VALUES ($1,$2,$3,NOW())
	`, c.ID, c.Name, c.NameLocalized)
	return err
}

func (r *PGRepo) UpdateCategory(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET name           = COALESCE(NULLIF($2,''), name),
		    name_localized = COALESCE(NULLIF($3,''), name_localized)
		WHERE id = $1
	`, c.ID, c.Name, c.NameLocalized)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes the category; referencing products are detached
// (category_id set to NULL) by the foreign key, never deleted.
func (r *PGRepo) DeleteCategory(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
