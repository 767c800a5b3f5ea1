package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/house-tournament/models"
)

var (
	ErrSpiritAssessmentNotFound = errors.New("spirit assessment not found")
	ErrSpiritHouseInvalid       = errors.New("spirit assessment house does not exist")
)

type SpiritRepository interface {
	// Upsert сохраняет оценку по ключу (house_id, tournament_date).
	Upsert(ctx context.Context, exec SQLExecutor, a *models.SpiritAssessment) error
	GetByHouseAndDate(ctx context.Context, exec SQLExecutor, houseID int, date string) (*models.SpiritAssessment, error)
	ListByDate(ctx context.Context, exec SQLExecutor, date string) ([]*models.SpiritAssessment, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresSpiritRepository struct {
	db *sql.DB
}

func NewPostgresSpiritRepository(db *sql.DB) SpiritRepository {
	return &postgresSpiritRepository{db: db}
}

func (r *postgresSpiritRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const spiritColumns = `id, house_id, tournament_date::text, assessor_name, sportsmanship, teamwork, seat_arrangement, total, notes, created_at, updated_at`

func (r *postgresSpiritRepository) Upsert(ctx context.Context, exec SQLExecutor, a *models.SpiritAssessment) error {
	query := `
		INSERT INTO spirit_assessments
			(house_id, tournament_date, assessor_name, sportsmanship, teamwork, seat_arrangement, total, notes)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (house_id, tournament_date) DO UPDATE SET
			assessor_name = EXCLUDED.assessor_name,
			sportsmanship = EXCLUDED.sportsmanship,
			teamwork = EXCLUDED.teamwork,
			seat_arrangement = EXCLUDED.seat_arrangement,
			total = EXCLUDED.total,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		a.HouseID, a.TournamentDate, a.AssessorName, a.Sportsmanship, a.Teamwork, a.SeatArrangement, a.Total, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	err = translatePQError(err)
	if errors.Is(err, ErrReferenceInvalid) {
		return fmt.Errorf("%w: %w", ErrSpiritHouseInvalid, err)
	}
	return err
}

func (r *postgresSpiritRepository) GetByHouseAndDate(ctx context.Context, exec SQLExecutor, houseID int, date string) (*models.SpiritAssessment, error) {
	query := `SELECT ` + spiritColumns + ` FROM spirit_assessments WHERE house_id = $1 AND tournament_date = $2::date`
	a, err := scanSpirit(r.getExecutor(exec).QueryRowContext(ctx, query, houseID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpiritAssessmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresSpiritRepository) ListByDate(ctx context.Context, exec SQLExecutor, date string) ([]*models.SpiritAssessment, error) {
	query := `SELECT ` + spiritColumns + ` FROM spirit_assessments WHERE tournament_date = $1::date ORDER BY house_id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.SpiritAssessment, 0)
	for rows.Next() {
		a, err := scanSpirit(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *postgresSpiritRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM spirit_assessments`)
	return err
}

func scanSpirit(s rowScanner) (*models.SpiritAssessment, error) {
	var a models.SpiritAssessment
	var notes sql.NullString
	err := s.Scan(&a.ID, &a.HouseID, &a.TournamentDate, &a.AssessorName,
		&a.Sportsmanship, &a.Teamwork, &a.SeatArrangement, &a.Total,
		&notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Notes = nullStringPtr(notes)
	return &a, nil
}
