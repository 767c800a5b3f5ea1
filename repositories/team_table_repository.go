package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/house-tournament/models"
)

var (
	ErrTeamTableAssignmentNotFound = errors.New("team table assignment not found")
	ErrTeamTableReferenceInvalid   = errors.New("team or table does not exist")
)

type TeamTableRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, a *models.TeamTableAssignment) error
	Delete(ctx context.Context, exec SQLExecutor, teamID int, category models.Category) error
	List(ctx context.Context, exec SQLExecutor) ([]*models.TeamTableAssignment, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresTeamTableRepository struct {
	db *sql.DB
}

func NewPostgresTeamTableRepository(db *sql.DB) TeamTableRepository {
	return &postgresTeamTableRepository{db: db}
}

func (r *postgresTeamTableRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamTableRepository) Upsert(ctx context.Context, exec SQLExecutor, a *models.TeamTableAssignment) error {
	query := `
		INSERT INTO team_table_assignments (team_id, category, table_id, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, category)
		DO UPDATE SET table_id = EXCLUDED.table_id, notes = EXCLUDED.notes, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, a.TeamID, a.Category, a.TableID, a.Notes).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	err = translatePQError(err)
	if errors.Is(err, ErrReferenceInvalid) {
		return fmt.Errorf("%w: %w", ErrTeamTableReferenceInvalid, err)
	}
	return err
}

func (r *postgresTeamTableRepository) Delete(ctx context.Context, exec SQLExecutor, teamID int, category models.Category) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`DELETE FROM team_table_assignments WHERE team_id = $1 AND category = $2`, teamID, category)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamTableAssignmentNotFound)
}

func (r *postgresTeamTableRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.TeamTableAssignment, error) {
	query := `
		SELECT id, team_id, category, table_id, notes, created_at, updated_at
		FROM team_table_assignments
		ORDER BY team_id ASC, category ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.TeamTableAssignment, 0)
	for rows.Next() {
		var a models.TeamTableAssignment
		var notes sql.NullString
		if err := rows.Scan(&a.ID, &a.TeamID, &a.Category, &a.TableID, &notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Notes = nullStringPtr(notes)
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *postgresTeamTableRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM team_table_assignments`)
	return err
}
