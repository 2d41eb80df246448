package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// InventoryRepository defines persistence access for stock items.
type InventoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	List(ctx context.Context) ([]domain.InventoryItem, error)
	AdjustStock(ctx context.Context, id string, delta float64) (*domain.InventoryItem, error)
}

type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns a Postgres-backed implementation.
func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &inventoryRepository{pool: pool}
}

func (r *inventoryRepository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	const query = `
        SELECT id, name, unit, stock, min_stock, created_at, updated_at
        FROM inventory_items WHERE id=$1`

	return r.scanItem(r.pool.QueryRow(ctx, query, id))
}

func (r *inventoryRepository) List(ctx context.Context) ([]domain.InventoryItem, error) {
	const query = `
        SELECT id, name, unit, stock, min_stock, created_at, updated_at
        FROM inventory_items ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Unit,
			&item.Stock,
			&item.MinStock,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *inventoryRepository) AdjustStock(ctx context.Context, id string, delta float64) (*domain.InventoryItem, error) {
	const query = `
        UPDATE inventory_items
        SET stock = GREATEST(stock + $1, 0), updated_at = NOW()
        WHERE id=$2
        RETURNING id, name, unit, stock, min_stock, created_at, updated_at`

	return r.scanItem(r.pool.QueryRow(ctx, query, delta, id))
}

func (r *inventoryRepository) scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Unit,
		&item.Stock,
		&item.MinStock,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
