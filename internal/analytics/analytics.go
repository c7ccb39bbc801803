// Package analytics records storefront events (page views and the like).
// Events are append-only rows; nothing downstream depends on them.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	Lang      string    `json:"lang,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type Repository interface {
	Insert(ctx context.Context, e *Event) error
	List(ctx context.Context, limit, offset int) ([]Event, error)
	Summary(ctx context.Context, days int) ([]DailyCount, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Insert(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO events (id, name, path, referrer, lang, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
	`, e.ID, e.Name, e.Path, e.Referrer, e.Lang)
	return err
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, name, path, referrer, lang, created_at
		FROM events ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Path, &e.Referrer, &e.Lang, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PGRepo) Summary(ctx context.Context, days int) ([]DailyCount, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if days <= 0 || days > 90 {
		days = 7
	}
	rows, err := r.db.Query(ctx, `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, COUNT(*)
		FROM events
		WHERE created_at >= NOW() - ($1 || ' days')::interval
		GROUP BY 1 ORDER BY 1 DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DailyCount{}
	for rows.Next() {
		var d DailyCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
