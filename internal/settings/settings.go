// Package settings stores server-owned configuration as key->JSONB rows.
// Delivery pricing lives here so the checkout never trusts fee figures
// from the request body.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("setting not found")

const (
	KeyDelivery = "delivery"
	KeyStore    = "store"
)

// DeliveryConfig is the value under KeyDelivery.
type DeliveryConfig struct {
	FreeDeliveryThreshold decimal.Decimal            `json:"free_delivery_threshold"`
	DefaultFee            decimal.Decimal            `json:"default_fee"`
	AreaFees              map[string]decimal.Decimal `json:"area_fees"`
}

// Fee resolves the delivery fee for a checkout: zero for pickup, zero at or
// above the free-delivery threshold, otherwise the area tier or the default
// flat fee when the area is unknown or unspecified.
func (c DeliveryConfig) Fee(deliveryType, area string, itemsSubtotal decimal.Decimal) decimal.Decimal {
	if deliveryType != "delivery" {
		return decimal.Zero
	}
	if itemsSubtotal.GreaterThanOrEqual(c.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	if fee, ok := c.AreaFees[area]; ok {
		return fee
	}
	return c.DefaultFee
}

func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		FreeDeliveryThreshold: decimal.RequireFromString("20.000"),
		DefaultFee:            decimal.RequireFromString("2.000"),
		AreaFees: map[string]decimal.Decimal{
			"sitra":    decimal.RequireFromString("1.000"),
			"muharraq": decimal.RequireFromString("1.500"),
			"other":    decimal.RequireFromString("2.000"),
		},
	}
}

// StoreConfig is the value under KeyStore: display metadata for the
// bilingual storefront.
type StoreConfig struct {
	Name          string `json:"name"`
	NameLocalized string `json:"name_localized"`
	Currency      string `json:"currency"`
}

type Repository interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	DeliveryConfig(ctx context.Context) (DeliveryConfig, error)
	SeedDefaults(ctx context.Context) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Get(ctx context.Context, key string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var raw json.RawMessage
	if err := r.db.QueryRow(ctx, `SELECT value FROM settings WHERE key=$1`, key).Scan(&raw); err != nil {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (r *PGRepo) Put(ctx context.Context, key string, value json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1,$2,NOW())
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()
	`, key, value)
	return err
}

func (r *PGRepo) DeliveryConfig(ctx context.Context) (DeliveryConfig, error) {
	raw, err := r.Get(ctx, KeyDelivery)
	if err != nil {
		return DefaultDeliveryConfig(), nil
	}
	var cfg DeliveryConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return DeliveryConfig{}, err
	}
	if cfg.AreaFees == nil {
		cfg.AreaFees = map[string]decimal.Decimal{}
	}
	return cfg, nil
}

// SeedDefaults writes the initial delivery and store settings once; existing
// rows are left alone.
func (r *PGRepo) SeedDefaults(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	seeds := map[string]any{
		KeyDelivery: DefaultDeliveryConfig(),
		KeyStore:    StoreConfig{Name: "Nawras Store", NameLocalized: "متجر النورس", Currency: "BHD"},
	}
	for key, v := range seeds {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := r.db.Exec(ctx, `
			INSERT INTO settings (key, value, updated_at) VALUES ($1,$2,NOW())
			ON CONFLICT (key) DO NOTHING
		`, key, raw); err != nil {
			return err
		}
	}
	return nil
}
