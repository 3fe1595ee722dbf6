// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"cookie-storefront/internal/models"
)

// SQLiteStorage archives the receipts of completed checkouts.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    PRAGMA foreign_keys = ON;

    CREATE TABLE IF NOT EXISTS orders (
        id TEXT PRIMARY KEY,
        placed_at TEXT NOT NULL,
        total_items INTEGER NOT NULL,
        total_cents INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS order_lines (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        order_id TEXT NOT NULL,
        item_id TEXT NOT NULL,
        kind TEXT NOT NULL,
        name TEXT NOT NULL,
        quantity INTEGER NOT NULL,
        unit_price_cents INTEGER NOT NULL,
        subtotal_cents INTEGER NOT NULL,
        contents TEXT,
        FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders(placed_at);
    CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) SaveOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
        INSERT INTO orders (id, placed_at, total_items, total_cents)
        VALUES (?, ?, ?, ?)
    `
	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID, order.PlacedAt.UTC().Format(time.RFC3339Nano),
		order.TotalItems, int64(order.Total))
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	lineQuery := `
        INSERT INTO order_lines (order_id, item_id, kind, name, quantity, unit_price_cents, subtotal_cents, contents)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	for _, line := range order.Lines {
		var contents sql.NullString
		if len(line.Contents) > 0 {
			raw, err := json.Marshal(line.Contents)
			if err != nil {
				return fmt.Errorf("failed to encode box contents: %w", err)
			}
			contents = sql.NullString{String: string(raw), Valid: true}
		}

		_, err = tx.ExecContext(ctx, lineQuery,
			order.ID, line.ItemID, string(line.Kind), line.Name, line.Quantity,
			int64(line.UnitPrice), int64(line.Subtotal), contents)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrders returns up to limit orders, newest first.
func (s *SQLiteStorage) GetOrders(ctx context.Context, limit int) ([]*models.Order, error) {
	query := `
        SELECT id, placed_at, total_items, total_cents
        FROM orders
        ORDER BY placed_at DESC, rowid DESC
        LIMIT ?
    `

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		var placedAtStr string
		var totalCents int64

		if err := rows.Scan(&order.ID, &placedAtStr, &order.TotalItems, &totalCents); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if order.PlacedAt, err = time.Parse(time.RFC3339Nano, placedAtStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to parse placed_at: %w", err)
		}
		order.Total = models.Money(totalCents)

		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	// The pool has a single connection; release it before loading lines.
	rows.Close()

	for _, order := range orders {
		if err := s.loadLinesForOrder(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to load lines for order %s: %w", order.ID, err)
		}
	}

	return orders, nil
}

func (s *SQLiteStorage) loadLinesForOrder(ctx context.Context, order *models.Order) error {
	query := `
        SELECT item_id, kind, name, quantity, unit_price_cents, subtotal_cents, contents
        FROM order_lines
        WHERE order_id = ?
        ORDER BY id
    `

	rows, err := s.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		line := models.OrderLine{}
		var kind string
		var unitCents, subtotalCents int64
		var contents sql.NullString

		err := rows.Scan(&line.ItemID, &kind, &line.Name, &line.Quantity,
			&unitCents, &subtotalCents, &contents)
		if err != nil {
			return fmt.Errorf("failed to scan order line: %w", err)
		}

		line.Kind = models.ItemKind(kind)
		line.UnitPrice = models.Money(unitCents)
		line.Subtotal = models.Money(subtotalCents)
		if contents.Valid {
			if err := json.Unmarshal([]byte(contents.String), &line.Contents); err != nil {
				return fmt.Errorf("failed to decode box contents: %w", err)
			}
		}
		lines = append(lines, line)
	}

	order.Lines = lines
	return rows.Err()
}
