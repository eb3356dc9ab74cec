// Package statsarchive keeps a Postgres history of live statistics updates.
package statsarchive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/stats"
)

const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 500
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Record is one archived update.
type Record struct {
	ID          int64            `json:"id"`
	EventType   string           `json:"eventType"`
	OrderID     string           `json:"orderId,omitempty"`
	TotalSales  *decimal.Decimal `json:"totalSales,omitempty"`
	DailySales  *decimal.Decimal `json:"dailySales,omitempty"`
	DailyOrders *int64           `json:"dailyOrders,omitempty"`
	Payload     json.RawMessage  `json:"payload"`
	PushedAt    string           `json:"pushedAt,omitempty"`
	ReceivedAt  time.Time        `json:"receivedAt"`
}

type PostgresRepository struct {
	pool DBPool
	now  func() time.Time
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool, now: time.Now}
}

// Name identifies the archive in live-feed sink logs.
func (r *PostgresRepository) Name() string { return "postgres" }

// RecordUpdate stores u. It satisfies stats.Sink.
func (r *PostgresRepository) RecordUpdate(ctx context.Context, u stats.Update) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	var totalSales, dailySales *string
	var dailyOrders *int64
	if u.Total != nil {
		totalSales = decimalText(u.Total.Amount)
	}
	if u.Daily != nil {
		dailySales = decimalText(u.Daily.Amount)
	}
	if u.Orders != nil {
		n := u.Orders.OrderCount
		dailyOrders = &n
	}

	receivedAt := u.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = r.now()
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO statistics_updates(event_type, order_id, total_sales, daily_sales, daily_orders, payload, pushed_at, received_at)
		VALUES($1, NULLIF($2, ''), $3::text::numeric, $4::text::numeric, $5, $6, NULLIF($7, ''), $8)
	`, u.EventType, u.OrderID, totalSales, dailySales, dailyOrders, payload, u.Timestamp, receivedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert statistics update: %w", err)
	}
	return nil
}

// Recent returns the newest archived updates first. limit is clamped to
// [1, MaxRecentLimit]; non-positive values use DefaultRecentLimit.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	limit = min(limit, MaxRecentLimit)

	rows, err := r.pool.Query(ctx, `
		SELECT id, event_type, COALESCE(order_id, ''), total_sales::text, daily_sales::text,
		       daily_orders, payload, COALESCE(pushed_at, ''), received_at
		FROM statistics_updates
		ORDER BY received_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query statistics updates: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var (
			rec                    Record
			totalSales, dailySales *string
			payload                []byte
		)
		if err := rows.Scan(&rec.ID, &rec.EventType, &rec.OrderID, &totalSales, &dailySales,
			&rec.DailyOrders, &payload, &rec.PushedAt, &rec.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan statistics update: %w", err)
		}
		if rec.TotalSales, err = parseDecimal(totalSales); err != nil {
			return nil, err
		}
		if rec.DailySales, err = parseDecimal(dailySales); err != nil {
			return nil, err
		}
		rec.Payload = payload
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statistics updates: %w", err)
	}
	return out, nil
}

func decimalText(d decimal.Decimal) *string {
	s := d.String()
	return &s
}

func parseDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("parse archived amount %q: %w", *s, err)
	}
	return &d, nil
}
