package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flexoffice/booking-service/internal/domain"
)

// SpaceRepository exposes the catalog. List returns spaces in seeding order.
type SpaceRepository interface {
	Save(ctx context.Context, space *domain.Space) error
	GetByID(ctx context.Context, id string) (*domain.Space, error)
	List(ctx context.Context) ([]domain.Space, error)
}

type spaceRepository struct {
	pool *pgxpool.Pool
}

// NewSpaceRepository returns a Postgres-backed implementation.
func NewSpaceRepository(pool *pgxpool.Pool) SpaceRepository {
	return &spaceRepository{pool: pool}
}

func (r *spaceRepository) Save(ctx context.Context, space *domain.Space) error {
	const query = `
        INSERT INTO spaces (id, name, type, capacity, equipment, available)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		space.ID,
		space.Name,
		space.Type,
		space.Capacity,
		space.Equipment,
		space.Available,
	)
	return err
}

func (r *spaceRepository) GetByID(ctx context.Context, id string) (*domain.Space, error) {
	const query = `
        SELECT id, name, type, capacity, equipment, available
        FROM spaces WHERE id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	space, err := scanSpace(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return space, nil
}

func (r *spaceRepository) List(ctx context.Context) ([]domain.Space, error) {
	const query = `
        SELECT id, name, type, capacity, equipment, available
        FROM spaces ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Space{}
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *space)
	}
	return result, rows.Err()
}

func scanSpace(row pgx.Row) (*domain.Space, error) {
	var space domain.Space
	if err := row.Scan(
		&space.ID,
		&space.Name,
		&space.Type,
		&space.Capacity,
		&space.Equipment,
		&space.Available,
	); err != nil {
		return nil, err
	}
	return &space, nil
}
