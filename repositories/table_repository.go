package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/house-tournament/models"
)

var ErrTableNotFound = errors.New("play table not found")

type TableRepository interface {
	Create(ctx context.Context, exec SQLExecutor, table *models.PlayTable) error
	UpsertByName(ctx context.Context, exec SQLExecutor, table *models.PlayTable) error
	Update(ctx context.Context, exec SQLExecutor, table *models.PlayTable) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.PlayTable, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.PlayTable, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
}

type postgresTableRepository struct {
	db *sql.DB
}

func NewPostgresTableRepository(db *sql.DB) TableRepository {
	return &postgresTableRepository{db: db}
}

func (r *postgresTableRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tableColumns = `id, name, assigned_category, current_assignment, priority_assignment, notes, sort_order, created_at, updated_at`

func (r *postgresTableRepository) Create(ctx context.Context, exec SQLExecutor, t *models.PlayTable) error {
	query := `
		INSERT INTO play_tables (name, assigned_category, current_assignment, priority_assignment, notes, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, t.AssignedCategory, t.CurrentAssignment, t.PriorityAssignment, t.Notes, t.SortOrder,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translatePQError(err)
}

func (r *postgresTableRepository) UpsertByName(ctx context.Context, exec SQLExecutor, t *models.PlayTable) error {
	query := `
		INSERT INTO play_tables (name, assigned_category, current_assignment, priority_assignment, notes, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			assigned_category = EXCLUDED.assigned_category,
			sort_order = EXCLUDED.sort_order,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, t.AssignedCategory, t.CurrentAssignment, t.PriorityAssignment, t.Notes, t.SortOrder,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translatePQError(err)
}

func (r *postgresTableRepository) Update(ctx context.Context, exec SQLExecutor, t *models.PlayTable) error {
	query := `
		UPDATE play_tables
		SET name = $1, assigned_category = $2, current_assignment = $3, priority_assignment = $4,
		    notes = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, t.AssignedCategory, t.CurrentAssignment, t.PriorityAssignment, t.Notes, t.SortOrder, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTableNotFound
	}
	return translatePQError(err)
}

func (r *postgresTableRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.PlayTable, error) {
	t, err := scanTable(r.getExecutor(exec).QueryRowContext(ctx, `SELECT `+tableColumns+` FROM play_tables WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTableRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.PlayTable, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, `SELECT `+tableColumns+` FROM play_tables ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]*models.PlayTable, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *postgresTableRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	var n int
	err := r.getExecutor(exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM play_tables`).Scan(&n)
	return n, err
}

func scanTable(s rowScanner) (*models.PlayTable, error) {
	var t models.PlayTable
	var notes sql.NullString
	err := s.Scan(&t.ID, &t.Name, &t.AssignedCategory, &t.CurrentAssignment, &t.PriorityAssignment,
		&notes, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Notes = nullStringPtr(notes)
	return &t, nil
}
