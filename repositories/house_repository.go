package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/house-tournament/models"
)

var ErrHouseNotFound = errors.New("house not found")

type HouseRepository interface {
	Create(ctx context.Context, exec SQLExecutor, house *models.House) error
	UpsertByName(ctx context.Context, exec SQLExecutor, house *models.House) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.House, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.House, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
}

type postgresHouseRepository struct {
	db *sql.DB
}

func NewPostgresHouseRepository(db *sql.DB) HouseRepository {
	return &postgresHouseRepository{db: db}
}

func (r *postgresHouseRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresHouseRepository) Create(ctx context.Context, exec SQLExecutor, house *models.House) error {
	query := `
		INSERT INTO houses (name, color, color_hex)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, house.Name, house.Color, house.ColorHex).
		Scan(&house.ID, &house.CreatedAt, &house.UpdatedAt)
	return translatePQError(err)
}

func (r *postgresHouseRepository) UpsertByName(ctx context.Context, exec SQLExecutor, house *models.House) error {
	query := `
		INSERT INTO houses (name, color, color_hex)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET color = EXCLUDED.color, color_hex = EXCLUDED.color_hex, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, house.Name, house.Color, house.ColorHex).
		Scan(&house.ID, &house.CreatedAt, &house.UpdatedAt)
	return translatePQError(err)
}

func (r *postgresHouseRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.House, error) {
	query := `SELECT id, name, color, color_hex, created_at, updated_at FROM houses WHERE id = $1`
	h, err := scanHouse(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *postgresHouseRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.House, error) {
	query := `SELECT id, name, color, color_hex, created_at, updated_at FROM houses ORDER BY name ASC, id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	houses := make([]*models.House, 0)
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		houses = append(houses, h)
	}
	return houses, rows.Err()
}

func (r *postgresHouseRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	var n int
	err := r.getExecutor(exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM houses`).Scan(&n)
	return n, err
}

func scanHouse(s rowScanner) (*models.House, error) {
	var h models.House
	if err := s.Scan(&h.ID, &h.Name, &h.Color, &h.ColorHex, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}
