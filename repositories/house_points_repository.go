package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/house-tournament/models"
)

type HousePointsRepository interface {
	// Upsert перезаписывает строки кэша по ключу (house_id, tournament_date).
	Upsert(ctx context.Context, exec SQLExecutor, rows []models.HousePoints) error
	ListByDate(ctx context.Context, exec SQLExecutor, date string) ([]models.HousePoints, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
	// LockRecalculation сериализует пересчёты: advisory-блокировка до конца транзакции.
	LockRecalculation(ctx context.Context, exec SQLExecutor) error
}

const housePointsRecalcLockKey int64 = 7_202_501

type postgresHousePointsRepository struct {
	db *sql.DB
}

func NewPostgresHousePointsRepository(db *sql.DB) HousePointsRepository {
	return &postgresHousePointsRepository{db: db}
}

func (r *postgresHousePointsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresHousePointsRepository) Upsert(ctx context.Context, exec SQLExecutor, rows []models.HousePoints) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO house_points
			(house_id, tournament_date, placement_points, participation_points, match_win_points,
			 spirit_points, total_points, final_placement, tie_breaker_notes)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (house_id, tournament_date) DO UPDATE SET
			placement_points = EXCLUDED.placement_points,
			participation_points = EXCLUDED.participation_points,
			match_win_points = EXCLUDED.match_win_points,
			spirit_points = EXCLUDED.spirit_points,
			total_points = EXCLUDED.total_points,
			final_placement = EXCLUDED.final_placement,
			tie_breaker_notes = EXCLUDED.tie_breaker_notes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	for i := range rows {
		hp := &rows[i]
		err := executor.QueryRowContext(ctx, query,
			hp.HouseID, hp.TournamentDate, hp.PlacementPoints, hp.ParticipationPoints, hp.MatchWinPoints,
			hp.SpiritPoints, hp.TotalPoints, hp.FinalPlacement, hp.TieBreakerNotes,
		).Scan(&hp.ID, &hp.CreatedAt, &hp.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert house points for house %d: %w", hp.HouseID, translatePQError(err))
		}
	}
	return nil
}

func (r *postgresHousePointsRepository) ListByDate(ctx context.Context, exec SQLExecutor, date string) ([]models.HousePoints, error) {
	query := `
		SELECT hp.id, hp.house_id, h.name, h.color_hex, hp.tournament_date::text,
		       hp.placement_points, hp.participation_points, hp.match_win_points,
		       hp.spirit_points, hp.total_points, hp.final_placement, hp.tie_breaker_notes,
		       hp.created_at, hp.updated_at
		FROM house_points hp
		JOIN houses h ON h.id = hp.house_id
		WHERE hp.tournament_date = $1::date
		ORDER BY hp.final_placement ASC, h.name ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]models.HousePoints, 0)
	for rows.Next() {
		var hp models.HousePoints
		var notes sql.NullString
		if err := rows.Scan(
			&hp.ID, &hp.HouseID, &hp.HouseName, &hp.HouseColorHex, &hp.TournamentDate,
			&hp.PlacementPoints, &hp.ParticipationPoints, &hp.MatchWinPoints,
			&hp.SpiritPoints, &hp.TotalPoints, &hp.FinalPlacement, &notes,
			&hp.CreatedAt, &hp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		hp.TieBreakerNotes = nullStringPtr(notes)
		list = append(list, hp)
	}
	return list, rows.Err()
}

func (r *postgresHousePointsRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM house_points`)
	return err
}

func (r *postgresHousePointsRepository) LockRecalculation(ctx context.Context, exec SQLExecutor) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, housePointsRecalcLockKey)
	return translatePQError(err)
}
