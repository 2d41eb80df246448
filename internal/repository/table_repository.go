package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// TableRepository defines persistence access for tables.
type TableRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Table, error)
	List(ctx context.Context) ([]domain.Table, error)
	UpdateStatus(ctx context.Context, id string, status domain.TableStatus) error
}

type tableRepository struct {
	pool *pgxpool.Pool
}

// NewTableRepository returns a Postgres-backed implementation.
func NewTableRepository(pool *pgxpool.Pool) TableRepository {
	return &tableRepository{pool: pool}
}

func (r *tableRepository) GetByID(ctx context.Context, id string) (*domain.Table, error) {
	const query = `
        SELECT id, number, seats, status, created_at, updated_at
        FROM tables WHERE id=$1`

	var table domain.Table
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&table.ID,
		&table.Number,
		&table.Seats,
		&table.Status,
		&table.CreatedAt,
		&table.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepository) List(ctx context.Context) ([]domain.Table, error) {
	const query = `
        SELECT id, number, seats, status, created_at, updated_at
        FROM tables ORDER BY number`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var table domain.Table
		if err := rows.Scan(
			&table.ID,
			&table.Number,
			&table.Seats,
			&table.Status,
			&table.CreatedAt,
			&table.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *tableRepository) UpdateStatus(ctx context.Context, id string, status domain.TableStatus) error {
	const query = `UPDATE tables SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
